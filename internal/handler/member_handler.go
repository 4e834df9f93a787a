package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/dirlenor/demo-crm-liff/internal/model"
	"github.com/dirlenor/demo-crm-liff/internal/service"
)

// MemberServiceInterface defines the interface for member and ledger-read
// business logic.
type MemberServiceInterface interface {
	UpsertMember(ctx context.Context, req *model.UpsertMemberRequest) (*model.Member, error)
	GetMember(ctx context.Context, userID string) (*model.Member, error)
	ListMembers(ctx context.Context) ([]model.Member, error)
	History(ctx context.Context, userID string, limit int) ([]model.PointTransaction, error)
	AdjustBalance(ctx context.Context, userID string, newBalance int) (int, error)
}

// MemberHandler handles HTTP requests for member profile and history operations.
type MemberHandler struct {
	service   MemberServiceInterface
	validator *validator.Validate
}

// NewMemberHandler creates a new MemberHandler with the given service and validator.
func NewMemberHandler(svc MemberServiceInterface, v *validator.Validate) *MemberHandler {
	return &MemberHandler{service: svc, validator: v}
}

// Upsert handles POST /api/members, the app-launch profile sync. New members
// start with a zero balance; existing members keep theirs.
func (h *MemberHandler) Upsert(c *fiber.Ctx) error {
	var req model.UpsertMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	member, err := h.service.UpsertMember(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("user_id", req.UserID).Msg("failed to upsert member")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(member)
}

// Get handles GET /api/members/:id requests.
func (h *MemberHandler) Get(c *fiber.Ctx) error {
	userID := c.Params("id")

	member, err := h.service.GetMember(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
		}
		log.Error().Err(err).Str("user_id", userID).Msg("failed to get member")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(member)
}

// List handles GET /api/members requests for the admin dashboard.
func (h *MemberHandler) List(c *fiber.Ctx) error {
	members, err := h.service.ListMembers(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list members")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(members)
}

// History handles GET /api/members/:id/transactions requests.
func (h *MemberHandler) History(c *fiber.Ctx) error {
	userID := c.Params("id")
	limit, _ := strconv.Atoi(c.Query("limit"))

	txns, err := h.service.History(c.Context(), userID, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to get point history")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(txns)
}

// AdjustPoints handles PUT /api/members/:id/points, the admin manual
// balance correction.
func (h *MemberHandler) AdjustPoints(c *fiber.Ctx) error {
	userID := c.Params("id")

	var req model.AdjustPointsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	balance, err := h.service.AdjustBalance(c.Context(), userID, *req.Points)
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "member not found"})
		}
		if errors.Is(err, service.ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: points must not be negative"})
		}
		log.Error().Err(err).Str("user_id", userID).Msg("failed to adjust member points")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().Str("user_id", userID).Int("balance", balance).Msg("member balance adjusted")
	return c.JSON(fiber.Map{"points_balance": balance})
}
