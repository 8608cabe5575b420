package receipt

import (
	"io"
	"strings"

	"controller-migrate/core/logger"
	"controller-migrate/core/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Handler serves stored receipts from the object storage bucket.
type Handler struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewHandler creates a receipt HTTP handler.
func NewHandler(client storage.Client, bucket string, l *zap.Logger) *Handler {
	return &Handler{client: client, bucket: bucket, logger: l}
}

// RegisterRoutes registers the receipt routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/receipts")
	group.Get("/", h.HandleList)
	group.Get("/:name", h.HandleGet)
}

// HandleList lists stored receipts, newest name last (object listing is
// lexicographic and run IDs are opaque; clients sort as they wish).
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	type receiptInfo struct {
		Name string `json:"name"`
		Size int64  `json:"size"`
	}
	receipts := make([]receiptInfo, 0)

	for object := range h.client.ListObjects(c.Context(), h.bucket, minio.ListObjectsOptions{
		Prefix:    ObjectPrefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			l.Error("Listing receipts failed", zap.Error(object.Err))
			return fiber.NewError(fiber.StatusBadGateway, "storage listing failed")
		}
		receipts = append(receipts, receiptInfo{
			Name: strings.TrimPrefix(object.Key, ObjectPrefix),
			Size: object.Size,
		})
	}

	return c.JSON(fiber.Map{"receipts": receipts})
}

// HandleGet streams one receipt as plain text.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	name := c.Params("name")
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return fiber.NewError(fiber.StatusBadRequest, "invalid receipt name")
	}

	obj, err := h.client.GetObject(c.Context(), h.bucket, ObjectPrefix+name, minio.GetObjectOptions{})
	if err != nil {
		l.Error("Fetching receipt failed", zap.String("name", name), zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "storage fetch failed")
	}
	defer obj.Close()

	body, err := io.ReadAll(obj)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "receipt not found")
	}

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.Send(body)
}
