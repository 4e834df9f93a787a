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

// RedemptionServiceInterface defines the interface for redemption business logic.
type RedemptionServiceInterface interface {
	Redeem(ctx context.Context, userID, productID string) (*model.RedeemProductResponse, error)
	GetDetail(ctx context.Context, id string) (*model.RedemptionDetail, error)
	ListByUser(ctx context.Context, userID string) ([]model.RedemptionDetail, error)
	Confirm(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
}

// RedemptionHandler handles HTTP requests for product redemption operations.
type RedemptionHandler struct {
	service   RedemptionServiceInterface
	validator *validator.Validate
}

// NewRedemptionHandler creates a new RedemptionHandler with the given service and validator.
func NewRedemptionHandler(svc RedemptionServiceInterface, v *validator.Validate) *RedemptionHandler {
	return &RedemptionHandler{service: svc, validator: v}
}

// Redeem handles POST /api/products/redeem requests to exchange points for
// a product. The response always has the stable
// {redemption_id, redemption_code} shape.
func (h *RedemptionHandler) Redeem(c *fiber.Ctx) error {
	var req model.RedeemProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	result, err := h.service.Redeem(c.Context(), req.UserID, req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		if errors.Is(err, service.ErrOutOfStock) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "product out of stock"})
		}
		if errors.Is(err, service.ErrInsufficientPoints) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "insufficient points"})
		}
		if errors.Is(err, service.ErrMemberNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("user_id", req.UserID).
			Str("product_id", req.ProductID).
			Msg("failed to redeem product")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("user_id", req.UserID).
		Str("product_id", req.ProductID).
		Str("redemption_id", result.RedemptionID).
		Msg("product redeemed")

	return c.JSON(result)
}

// GetDetail handles GET /api/redemptions/:id requests. The response carries
// remaining_seconds (clamped to zero) and an expired flag computed from the
// wall clock, not the stored status.
func (h *RedemptionHandler) GetDetail(c *fiber.Ctx) error {
	id := c.Params("id")

	detail, err := h.service.GetDetail(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRedemptionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "redemption not found"})
		}
		log.Error().Err(err).Str("redemption_id", id).Msg("failed to get redemption")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(detail)
}

// ListByUser handles GET /api/members/:id/redemptions requests.
func (h *RedemptionHandler) ListByUser(c *fiber.Ctx) error {
	userID := c.Params("id")

	details, err := h.service.ListByUser(c.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to list redemptions")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(details)
}

// Confirm handles POST /api/redemptions/:id/confirm, the staff scan at the
// counter.
func (h *RedemptionHandler) Confirm(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.service.Confirm(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrRedemptionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "redemption not found"})
		}
		if errors.Is(err, service.ErrRedemptionNotPending) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "redemption is not pending"})
		}
		if errors.Is(err, service.ErrRedemptionExpired) {
			return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "redemption code expired"})
		}
		log.Error().Err(err).Str("redemption_id", id).Msg("failed to confirm redemption")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().Str("redemption_id", id).Msg("redemption confirmed")
	return c.JSON(fiber.Map{"status": model.RedemptionCompleted})
}

// Cancel handles POST /api/redemptions/:id/cancel requests. Cancellation
// refunds the points and restocks finite products.
func (h *RedemptionHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.service.Cancel(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrRedemptionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "redemption not found"})
		}
		if errors.Is(err, service.ErrRedemptionNotPending) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "redemption is not pending"})
		}
		log.Error().Err(err).Str("redemption_id", id).Msg("failed to cancel redemption")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().Str("redemption_id", id).Msg("redemption cancelled")
	return c.JSON(fiber.Map{"status": model.RedemptionCancelled})
}
