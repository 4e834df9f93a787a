package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dirlenor/demo-crm-liff/internal/model"
	"github.com/dirlenor/demo-crm-liff/internal/service"
	"github.com/dirlenor/demo-crm-liff/internal/validator"
)

// mockCouponService is a mock implementation of CouponServiceInterface.
type mockCouponService struct {
	createFn func(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)
	getFn    func(ctx context.Context, code string) (*model.Coupon, error)
	listFn   func(ctx context.Context) ([]model.Coupon, error)
	deleteFn func(ctx context.Context, code string) error
	claimFn  func(ctx context.Context, code, userID string) (*model.ClaimCouponResponse, error)
}

func (m *mockCouponService) Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &model.Coupon{}, nil
}

func (m *mockCouponService) Get(ctx context.Context, code string) (*model.Coupon, error) {
	if m.getFn != nil {
		return m.getFn(ctx, code)
	}
	return &model.Coupon{}, nil
}

func (m *mockCouponService) List(ctx context.Context) ([]model.Coupon, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Coupon{}, nil
}

func (m *mockCouponService) Delete(ctx context.Context, code string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, code)
	}
	return nil
}

func (m *mockCouponService) Claim(ctx context.Context, code, userID string) (*model.ClaimCouponResponse, error) {
	if m.claimFn != nil {
		return m.claimFn(ctx, code, userID)
	}
	return &model.ClaimCouponResponse{}, nil
}

func setupCouponTestApp(mockSvc *mockCouponService) *fiber.App {
	app := fiber.New()
	h := NewCouponHandler(mockSvc, validator.New())
	app.Post("/api/coupons", h.Create)
	app.Post("/api/coupons/claim", h.Claim)
	app.Get("/api/coupons/:code", h.Get)
	app.Delete("/api/coupons/:code", h.Delete)
	return app
}

func TestCouponHandler_Claim_Success(t *testing.T) {
	mockSvc := &mockCouponService{
		claimFn: func(ctx context.Context, code, userID string) (*model.ClaimCouponResponse, error) {
			assert.Equal(t, "TEST123", code)
			assert.Equal(t, "U1234", userID)
			return &model.ClaimCouponResponse{Points: 25, Balance: 125}, nil
		},
	}
	app := setupCouponTestApp(mockSvc)

	body := `{"code": "TEST123", "user_id": "U1234"}`
	req := httptest.NewRequest(http.MethodPost, "/api/coupons/claim", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result model.ClaimCouponResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, 25, result.Points)
	assert.Equal(t, 125, result.Balance)
}

func TestCouponHandler_Claim_InvalidOrUsed(t *testing.T) {
	mockSvc := &mockCouponService{
		claimFn: func(ctx context.Context, code, userID string) (*model.ClaimCouponResponse, error) {
			return nil, service.ErrCouponInvalid
		},
	}
	app := setupCouponTestApp(mockSvc)

	body := `{"code": "TEST123", "user_id": "U1234"}`
	req := httptest.NewRequest(http.MethodPost, "/api/coupons/claim", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "coupon invalid or already used", result["error"],
		"used and missing codes share one message")
}

func TestCouponHandler_Claim_MemberNotFound(t *testing.T) {
	mockSvc := &mockCouponService{
		claimFn: func(ctx context.Context, code, userID string) (*model.ClaimCouponResponse, error) {
			return nil, service.ErrMemberNotFound
		},
	}
	app := setupCouponTestApp(mockSvc)

	body := `{"code": "TEST123", "user_id": "U-missing"}`
	req := httptest.NewRequest(http.MethodPost, "/api/coupons/claim", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCouponHandler_Claim_MissingFields(t *testing.T) {
	called := false
	mockSvc := &mockCouponService{
		claimFn: func(ctx context.Context, code, userID string) (*model.ClaimCouponResponse, error) {
			called = true
			return nil, nil
		},
	}
	app := setupCouponTestApp(mockSvc)

	for _, body := range []string{`{}`, `{"code": "TEST123"}`, `{"code": "  ", "user_id": "U1234"}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/coupons/claim", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "body: %s", body)
	}
	assert.False(t, called, "validation failures never reach the service")
}

func TestCouponHandler_Create_Success(t *testing.T) {
	mockSvc := &mockCouponService{
		createFn: func(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
			return &model.Coupon{Code: "TEST123", Points: 25}, nil
		},
	}
	app := setupCouponTestApp(mockSvc)

	body := `{"code": "test123", "points": 25}`
	req := httptest.NewRequest(http.MethodPost, "/api/coupons", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestCouponHandler_Create_Duplicate(t *testing.T) {
	mockSvc := &mockCouponService{
		createFn: func(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
			return nil, service.ErrCouponExists
		},
	}
	app := setupCouponTestApp(mockSvc)

	body := `{"code": "TEST123", "points": 25}`
	req := httptest.NewRequest(http.MethodPost, "/api/coupons", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestCouponHandler_Create_ZeroPoints(t *testing.T) {
	app := setupCouponTestApp(&mockCouponService{})

	body := `{"code": "TEST123", "points": 0}`
	req := httptest.NewRequest(http.MethodPost, "/api/coupons", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCouponHandler_Delete_Used(t *testing.T) {
	mockSvc := &mockCouponService{
		deleteFn: func(ctx context.Context, code string) error {
			return service.ErrCouponUsed
		},
	}
	app := setupCouponTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/coupons/TEST123", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestCouponHandler_Get_NotFound(t *testing.T) {
	mockSvc := &mockCouponService{
		getFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			return nil, service.ErrCouponNotFound
		},
	}
	app := setupCouponTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/coupons/NOPE", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
