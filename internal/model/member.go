package model

import "time"

// Member represents a tour member and their current point balance.
type Member struct {
	UserID        string    `json:"line_user_id"`
	DisplayName   string    `json:"display_name"`
	CurrentTour   *string   `json:"current_tour"`
	PointsBalance int       `json:"points_balance"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UpsertMemberRequest is the DTO for creating or refreshing a member profile.
// A new member starts with a zero balance; the balance of an existing member
// is never touched by this operation.
type UpsertMemberRequest struct {
	UserID      string  `json:"line_user_id" validate:"required,notblank,max=255"`
	DisplayName string  `json:"display_name" validate:"required,notblank,max=255"`
	CurrentTour *string `json:"current_tour" validate:"omitempty,max=255"`
}

// AdjustPointsRequest is the admin DTO for manually setting a member's balance.
type AdjustPointsRequest struct {
	Points *int `json:"points" validate:"required,gte=0"`
}
