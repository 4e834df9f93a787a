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

// PaymentServiceInterface defines the interface for top-up business logic.
type PaymentServiceInterface interface {
	Purchase(ctx context.Context, userID string, amountBaht int) (*model.PaymentTransaction, error)
	GetByID(ctx context.Context, id string) (*model.PaymentTransaction, error)
}

// PaymentHandler handles HTTP requests for point top-up operations.
type PaymentHandler struct {
	service   PaymentServiceInterface
	validator *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler with the given service and validator.
func NewPaymentHandler(svc PaymentServiceInterface, v *validator.Validate) *PaymentHandler {
	return &PaymentHandler{service: svc, validator: v}
}

// TopUp handles POST /api/payments/topup requests to buy points at the
// fixed 1 baht : 1 point rate.
func (h *PaymentHandler) TopUp(c *fiber.Ctx) error {
	var req model.TopUpRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	payment, err := h.service.Purchase(c.Context(), req.UserID, *req.AmountBaht)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: amount_baht must be at least 1"})
		}
		if errors.Is(err, service.ErrMemberNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
		}
		log.Error().Err(err).Str("user_id", req.UserID).Int("amount_baht", *req.AmountBaht).Msg("failed to top up points")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("user_id", req.UserID).
		Int("amount_baht", payment.AmountBaht).
		Int("points", payment.Points).
		Msg("points purchased")

	return c.Status(fiber.StatusCreated).JSON(payment)
}

// Get handles GET /api/payments/:id requests.
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	payment, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "payment transaction not found"})
		}
		log.Error().Err(err).Str("payment_id", id).Msg("failed to get payment transaction")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(payment)
}
