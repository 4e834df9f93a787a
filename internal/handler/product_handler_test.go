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

// mockProductService is a mock implementation of ProductServiceInterface.
type mockProductService struct {
	listActiveFn func(ctx context.Context) ([]model.Product, error)
	listAllFn    func(ctx context.Context) ([]model.Product, error)
	getFn        func(ctx context.Context, id string) (*model.Product, error)
	createFn     func(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
	updateFn     func(ctx context.Context, id string, req *model.UpdateProductRequest) (*model.Product, error)
	deleteFn     func(ctx context.Context, id string) error
}

func (m *mockProductService) ListActive(ctx context.Context) ([]model.Product, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx)
	}
	return []model.Product{}, nil
}

func (m *mockProductService) ListAll(ctx context.Context) ([]model.Product, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return []model.Product{}, nil
}

func (m *mockProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return &model.Product{}, nil
}

func (m *mockProductService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &model.Product{}, nil
}

func (m *mockProductService) Update(ctx context.Context, id string, req *model.UpdateProductRequest) (*model.Product, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, req)
	}
	return &model.Product{}, nil
}

func (m *mockProductService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func setupProductTestApp(mockSvc *mockProductService) *fiber.App {
	app := fiber.New()
	h := NewProductHandler(mockSvc, validator.New())
	app.Get("/api/products", h.List)
	app.Get("/api/products/:id", h.Get)
	app.Post("/api/products", h.Create)
	app.Put("/api/products/:id", h.Update)
	app.Delete("/api/products/:id", h.Delete)
	return app
}

func TestProductHandler_List_ActiveByDefault(t *testing.T) {
	activeCalled := false
	allCalled := false
	mockSvc := &mockProductService{
		listActiveFn: func(ctx context.Context) ([]model.Product, error) {
			activeCalled = true
			return []model.Product{{ID: "prod-1", Name: "Tour T-Shirt"}}, nil
		},
		listAllFn: func(ctx context.Context) ([]model.Product, error) {
			allCalled = true
			return nil, nil
		},
	}
	app := setupProductTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, activeCalled)
	assert.False(t, allCalled)

	var products []model.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	require.Len(t, products, 1)
	assert.Equal(t, "Tour T-Shirt", products[0].Name)
}

func TestProductHandler_List_AllForAdmin(t *testing.T) {
	allCalled := false
	mockSvc := &mockProductService{
		listAllFn: func(ctx context.Context) ([]model.Product, error) {
			allCalled = true
			return []model.Product{{ID: "prod-1"}, {ID: "prod-2", Active: false}}, nil
		},
	}
	app := setupProductTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/products?all=true", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, allCalled)
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	mockSvc := &mockProductService{
		getFn: func(ctx context.Context, id string) (*model.Product, error) {
			return nil, service.ErrProductNotFound
		},
	}
	app := setupProductTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/products/prod-missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProductHandler_Create_Success(t *testing.T) {
	mockSvc := &mockProductService{
		createFn: func(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
			assert.Equal(t, "Tour Mug", req.Name)
			require.NotNil(t, req.PointsRequired)
			assert.Equal(t, 50, *req.PointsRequired)
			return &model.Product{ID: "prod-1", Name: req.Name, PointsRequired: 50, Stock: 10, Active: true}, nil
		},
	}
	app := setupProductTestApp(mockSvc)

	body := `{"name": "Tour Mug", "points_required": 50, "stock": 10, "active": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result model.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "prod-1", result.ID)
}

func TestProductHandler_Create_ZeroPoints(t *testing.T) {
	called := false
	mockSvc := &mockProductService{
		createFn: func(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
			called = true
			return nil, nil
		},
	}
	app := setupProductTestApp(mockSvc)

	body := `{"name": "Freebie", "points_required": 0, "stock": 10, "active": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.False(t, called, "validation failures must not reach the service")
}

func TestProductHandler_Create_StockBelowSentinel(t *testing.T) {
	mockSvc := &mockProductService{}
	app := setupProductTestApp(mockSvc)

	body := `{"name": "Broken", "points_required": 10, "stock": -2, "active": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestProductHandler_Update_NotFound(t *testing.T) {
	mockSvc := &mockProductService{
		updateFn: func(ctx context.Context, id string, req *model.UpdateProductRequest) (*model.Product, error) {
			return nil, service.ErrProductNotFound
		},
	}
	app := setupProductTestApp(mockSvc)

	body := `{"name": "Renamed"}`
	req := httptest.NewRequest(http.MethodPut, "/api/products/prod-missing", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestProductHandler_Delete_Success(t *testing.T) {
	deletedID := ""
	mockSvc := &mockProductService{
		deleteFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	app := setupProductTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/products/prod-1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "prod-1", deletedID)
}

func TestProductHandler_Delete_InUse(t *testing.T) {
	mockSvc := &mockProductService{
		deleteFn: func(ctx context.Context, id string) error {
			return service.ErrProductInUse
		},
	}
	app := setupProductTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/products/prod-1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestProductHandler_Delete_NotFound(t *testing.T) {
	mockSvc := &mockProductService{
		deleteFn: func(ctx context.Context, id string) error {
			return service.ErrProductNotFound
		},
	}
	app := setupProductTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/products/prod-missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
