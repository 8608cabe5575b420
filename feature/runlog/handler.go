package runlog

import (
	"controller-migrate/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves run history over HTTP.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler creates a runlog HTTP handler.
func NewHandler(store *Store, l *zap.Logger) *Handler {
	return &Handler{store: store, logger: l}
}

// RegisterRoutes registers the runlog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/runs")
	group.Get("/", h.HandleRecent)
	group.Get("/totals", h.HandleTotals)
}

// HandleRecent returns the newest runs, bounded by ?limit.
func (h *Handler) HandleRecent(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	runs, err := h.store.Recent(c.Context(), c.QueryInt("limit", 50))
	if err != nil {
		l.Error("Querying recent runs failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "run history unavailable")
	}
	return c.JSON(fiber.Map{"runs": runs})
}

// HandleTotals returns aggregate counts across all recorded runs.
func (h *Handler) HandleTotals(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	totals, err := h.store.GetTotals(c.Context())
	if err != nil {
		l.Error("Querying run totals failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "run history unavailable")
	}
	return c.JSON(totals)
}
