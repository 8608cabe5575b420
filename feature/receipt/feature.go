package receipt

import (
	"controller-migrate/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature exposes stored receipts over the serve API.
type Feature struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewFeature creates the receipt feature.
func NewFeature(client storage.Client, bucket string, l *zap.Logger) *Feature {
	return &Feature{client: client, bucket: bucket, logger: l}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "receipts"
}

// IsEnabled reports whether the feature has a storage client to serve
// from.
func (f *Feature) IsEnabled() bool {
	return f.client != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.client, f.bucket, f.logger).RegisterRoutes(app)
	return nil
}
