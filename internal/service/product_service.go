package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dirlenor/demo-crm-liff/internal/model"
	"github.com/dirlenor/demo-crm-liff/pkg/database"
)

// ProductRepositoryInterface defines the interface for product data access.
type ProductRepositoryInterface interface {
	Insert(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id string) (*model.Product, error)
	ListActive(ctx context.Context) ([]model.Product, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	DecrementStock(ctx context.Context, tx database.TxQuerier, id string) error
	IncrementStock(ctx context.Context, tx database.TxQuerier, id string) error
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id string) error
}

// ProductService provides catalog business logic. Stock is only ever
// decremented by the redemption service, never here.
type ProductService struct {
	products ProductRepositoryInterface
}

// NewProductService creates a new ProductService with the given repository.
func NewProductService(products ProductRepositoryInterface) *ProductService {
	return &ProductService{products: products}
}

// ListActive retrieves visible products ordered by ascending price.
func (s *ProductService) ListActive(ctx context.Context) ([]model.Product, error) {
	return s.products.ListActive(ctx)
}

// ListAll retrieves every product for the admin catalog view.
func (s *ProductService) ListAll(ctx context.Context) ([]model.Product, error) {
	return s.products.ListAll(ctx)
}

// Get retrieves a product by ID.
// Returns ErrProductNotFound if the product doesn't exist.
func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create adds a catalog item.
func (s *ProductService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil || req.PointsRequired == nil || req.Stock == nil || req.Active == nil {
		return nil, ErrInvalidRequest
	}
	if *req.PointsRequired < 1 {
		return nil, ErrInvalidAmount
	}

	product := &model.Product{
		ID:             uuid.NewString(),
		Name:           req.Name,
		NameEN:         req.NameEN,
		Description:    req.Description,
		DescriptionEN:  req.DescriptionEN,
		ImageURL:       req.ImageURL,
		PointsRequired: *req.PointsRequired,
		Stock:          *req.Stock,
		Active:         *req.Active,
	}
	if err := s.products.Insert(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update edits a catalog item. Nil request fields are left unchanged.
// Returns ErrProductNotFound if the product doesn't exist.
func (s *ProductService) Update(ctx context.Context, id string, req *model.UpdateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.NameEN != nil {
		product.NameEN = req.NameEN
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.DescriptionEN != nil {
		product.DescriptionEN = req.DescriptionEN
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	if req.PointsRequired != nil {
		product.PointsRequired = *req.PointsRequired
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product from the catalog.
// Returns ErrProductNotFound if the product doesn't exist and
// ErrProductInUse if redemption rows still reference it.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}
