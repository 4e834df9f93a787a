package model

import "time"

// Transaction types. The ledger is append-only: the sum of signed amounts
// for a member always reconciles with their points_balance.
const (
	TransactionEarn   = "earn"
	TransactionRedeem = "redeem"
)

// PointTransaction is one row of the ledger audit trail.
type PointTransaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"line_user_id"`
	Type        string    `json:"type"`
	Amount      int       `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// EarnPointsRequest is the DTO for crediting points to a member.
type EarnPointsRequest struct {
	UserID      string `json:"user_id" validate:"required,notblank,max=255"`
	Amount      *int   `json:"amount" validate:"required,gte=1"`
	Description string `json:"description" validate:"max=255"`
}

// RedeemPointsRequest is the DTO for debiting points from a member.
type RedeemPointsRequest struct {
	UserID      string `json:"user_id" validate:"required,notblank,max=255"`
	Amount      *int   `json:"amount" validate:"required,gte=1"`
	Description string `json:"description" validate:"max=255"`
}

// RedeemPointsResponse reports whether the debit went through. Insufficient
// funds is an expected outcome, not an error.
type RedeemPointsResponse struct {
	Success bool `json:"success"`
	Balance int  `json:"balance"`
}
