package model

import "time"

// Redemption statuses. A redemption starts pending; staff confirmation moves
// it to completed, cancellation refunds and moves it to cancelled. Expiry is
// never stored, it is computed from expires_at on every read.
const (
	RedemptionPending   = "pending"
	RedemptionCompleted = "completed"
	RedemptionCancelled = "cancelled"
)

// Redemption records a points-for-product exchange. PointsUsed snapshots the
// product price at redemption time.
type Redemption struct {
	ID             string    `json:"id"`
	UserID         string    `json:"line_user_id"`
	ProductID      string    `json:"product_id"`
	PointsUsed     int       `json:"points_used"`
	RedemptionCode string    `json:"redemption_code"`
	Status         string    `json:"status"`
	ExpiresAt      time.Time `json:"expires_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RedemptionDetail joins a redemption with its product for display.
type RedemptionDetail struct {
	Redemption
	Product          Product `json:"product"`
	RemainingSeconds int     `json:"remaining_seconds"`
	Expired          bool    `json:"expired"`
}
