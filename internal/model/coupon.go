package model

import "time"

// Coupon is a single-use QR earn-code. Codes are stored uppercase and move
// from unused to used exactly once; a used coupon is immutable.
type Coupon struct {
	Code      string     `json:"code"`
	Points    int        `json:"points"`
	Used      bool       `json:"used"`
	UsedBy    *string    `json:"used_by"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateCouponRequest is the admin DTO for creating a QR coupon.
type CreateCouponRequest struct {
	Code   string `json:"code" validate:"required,notblank,max=64"`
	Points *int   `json:"points" validate:"required,gte=1"`
}

// ClaimCouponRequest is the DTO for claiming a scanned QR code.
type ClaimCouponRequest struct {
	Code   string `json:"code" validate:"required,notblank,max=64"`
	UserID string `json:"user_id" validate:"required,notblank,max=255"`
}

// ClaimCouponResponse reports the points credited by a successful claim.
type ClaimCouponResponse struct {
	Points  int `json:"points"`
	Balance int `json:"balance"`
}
