package model

import "time"

// UnlimitedStock is the sentinel stock value for products that never run out.
const UnlimitedStock = -1

// Product is a redeemable catalog item with bilingual naming.
type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	NameEN         *string   `json:"name_en"`
	Description    *string   `json:"description"`
	DescriptionEN  *string   `json:"description_en"`
	ImageURL       *string   `json:"image_url"`
	PointsRequired int       `json:"points_required"`
	Stock          int       `json:"stock"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// InStock reports whether the product can still be redeemed.
func (p *Product) InStock() bool {
	return p.Stock == UnlimitedStock || p.Stock > 0
}

// CreateProductRequest is the admin DTO for adding a catalog item.
type CreateProductRequest struct {
	Name           string  `json:"name" validate:"required,notblank,max=255"`
	NameEN         *string `json:"name_en" validate:"omitempty,max=255"`
	Description    *string `json:"description"`
	DescriptionEN  *string `json:"description_en"`
	ImageURL       *string `json:"image_url" validate:"omitempty,max=2048"`
	PointsRequired *int    `json:"points_required" validate:"required,gte=1"`
	Stock          *int    `json:"stock" validate:"required,gte=-1"`
	Active         *bool   `json:"active" validate:"required"`
}

// UpdateProductRequest is the admin DTO for editing a catalog item.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name           *string `json:"name" validate:"omitempty,notblank,max=255"`
	NameEN         *string `json:"name_en" validate:"omitempty,max=255"`
	Description    *string `json:"description"`
	DescriptionEN  *string `json:"description_en"`
	ImageURL       *string `json:"image_url" validate:"omitempty,max=2048"`
	PointsRequired *int    `json:"points_required" validate:"omitempty,gte=1"`
	Stock          *int    `json:"stock" validate:"omitempty,gte=-1"`
	Active         *bool   `json:"active"`
}

// RedeemProductRequest is the DTO for exchanging points for a product.
type RedeemProductRequest struct {
	UserID    string `json:"user_id" validate:"required,notblank,max=255"`
	ProductID string `json:"product_id" validate:"required,notblank,max=64"`
}

// RedeemProductResponse carries the issued redemption reference and code.
type RedeemProductResponse struct {
	RedemptionID   string `json:"redemption_id"`
	RedemptionCode string `json:"redemption_code"`
}
