package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/dirlenor/demo-crm-liff/internal/model"
	"github.com/dirlenor/demo-crm-liff/internal/service"
)

// LedgerServiceInterface defines the interface for balance mutation logic.
type LedgerServiceInterface interface {
	Earn(ctx context.Context, userID string, amount int, description string) (int, error)
	Redeem(ctx context.Context, userID string, amount int, description string) (bool, int, error)
}

// PointsHandler handles HTTP requests for direct earn/redeem operations.
type PointsHandler struct {
	service   LedgerServiceInterface
	validator *validator.Validate
}

// NewPointsHandler creates a new PointsHandler with the given service and validator.
func NewPointsHandler(svc LedgerServiceInterface, v *validator.Validate) *PointsHandler {
	return &PointsHandler{service: svc, validator: v}
}

// Earn handles POST /api/points/earn requests to credit points.
func (h *PointsHandler) Earn(c *fiber.Ctx) error {
	var req model.EarnPointsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	balance, err := h.service.Earn(c.Context(), req.UserID, *req.Amount, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: amount must be at least 1"})
		}
		if errors.Is(err, service.ErrMemberNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
		}
		log.Error().Err(err).Str("user_id", req.UserID).Int("amount", *req.Amount).Msg("failed to earn points")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().Str("user_id", req.UserID).Int("amount", *req.Amount).Int("balance", balance).Msg("points earned")
	return c.JSON(fiber.Map{"points_balance": balance})
}

// Redeem handles POST /api/points/redeem requests to debit points.
// Insufficient balance is a 200 with success = false, matching the
// redeem_points contract: callers distinguish expected insufficiency from
// unexpected failures.
func (h *PointsHandler) Redeem(c *fiber.Ctx) error {
	var req model.RedeemPointsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	ok, balance, err := h.service.Redeem(c.Context(), req.UserID, *req.Amount, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: amount must be at least 1"})
		}
		if errors.Is(err, service.ErrMemberNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
		}
		log.Error().Err(err).Str("user_id", req.UserID).Int("amount", *req.Amount).Msg("failed to redeem points")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(model.RedeemPointsResponse{Success: ok, Balance: balance})
}
