package api

import (
	"github.com/gofiber/fiber/v3"

	"redline/internal/db"
	"redline/internal/metrics"
	"redline/internal/models"
)

// MaintenanceHandler exposes on-demand maintenance operations.
type MaintenanceHandler struct {
	db *db.DB
}

// NewMaintenanceHandler creates a new maintenance handler.
func NewMaintenanceHandler(database *db.DB) *MaintenanceHandler {
	return &MaintenanceHandler{db: database}
}

// ExpireSweep flips every pending request past its expiry to expired and
// reports how many rows changed. Safe to call repeatedly.
func (h *MaintenanceHandler) ExpireSweep(c fiber.Ctx) error {
	count, err := h.db.ExpireSweep(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to run expiration sweep")
	}

	metrics.RecordExpired(count)
	return jsonSuccess(c, models.SweepResponse{Expired: count})
}
