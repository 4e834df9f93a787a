package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/dirlenor/demo-crm-liff/internal/model"
)

// StatsServiceInterface defines the interface for dashboard aggregates.
type StatsServiceInterface interface {
	Stats(ctx context.Context) (*model.DashboardStats, error)
	RecentTransactions(ctx context.Context, limit int) ([]model.PointTransaction, error)
}

// StatsHandler handles the admin dashboard endpoints.
type StatsHandler struct {
	service StatsServiceInterface
}

// NewStatsHandler creates a new StatsHandler with the given service.
func NewStatsHandler(svc StatsServiceInterface) *StatsHandler {
	return &StatsHandler{service: svc}
}

// Stats handles GET /api/admin/stats requests.
func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to compute dashboard stats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(stats)
}

// Transactions handles GET /api/transactions, the admin transactions page.
func (h *StatsHandler) Transactions(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))

	txns, err := h.service.RecentTransactions(c.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list transactions")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(txns)
}
