package runlog

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature exposes run history over the serve API.
type Feature struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewFeature creates the runlog feature. db may be nil when the
// database is not configured; the feature then stays disabled.
func NewFeature(db *gorm.DB, l *zap.Logger) *Feature {
	return &Feature{db: db, logger: l}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "runlog"
}

// IsEnabled reports whether a database connection is available.
func (f *Feature) IsEnabled() bool {
	return f.db != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	store := NewStore(f.db)
	if err := store.Migrate(); err != nil {
		return err
	}
	NewHandler(store, f.logger).RegisterRoutes(app)
	return nil
}
