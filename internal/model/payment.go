package model

import "time"

// PaymentTransaction records a top-up purchase. The exchange rate is a fixed
// 1 baht : 1 point; Points always equals AmountBaht.
type PaymentTransaction struct {
	ID         string    `json:"id"`
	UserID     string    `json:"line_user_id"`
	AmountBaht int       `json:"amount_baht"`
	Points     int       `json:"points"`
	CreatedAt  time.Time `json:"created_at"`
}

// TopUpRequest is the DTO for purchasing points.
type TopUpRequest struct {
	UserID     string `json:"user_id" validate:"required,notblank,max=255"`
	AmountBaht *int   `json:"amount_baht" validate:"required,gte=1"`
}
