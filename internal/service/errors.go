package service

import "errors"

var (
	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidAmount is returned when a point or baht amount is below 1
	ErrInvalidAmount = errors.New("amount must be at least 1")

	// ErrMemberNotFound is returned when a member cannot be found
	ErrMemberNotFound = errors.New("member not found")

	// ErrInsufficientPoints is returned when a debit exceeds the member's balance
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrCouponExists is returned when creating a coupon whose code is taken
	ErrCouponExists = errors.New("coupon already exists")

	// ErrCouponNotFound is returned when a coupon cannot be found.
	// Claim paths never return this; they return ErrCouponInvalid instead.
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCouponInvalid is returned when a claimed code is absent or already
	// used. The two cases are deliberately indistinguishable to the caller.
	ErrCouponInvalid = errors.New("coupon invalid or already used")

	// ErrCouponUsed is returned when deleting a coupon that has been claimed
	ErrCouponUsed = errors.New("coupon already used")

	// ErrProductNotFound is returned when a product is absent or inactive
	ErrProductNotFound = errors.New("product not found")

	// ErrProductInUse is returned when deleting a product that has
	// redemption rows referencing it
	ErrProductInUse = errors.New("product has existing redemptions")

	// ErrOutOfStock is returned when a product has no remaining stock
	ErrOutOfStock = errors.New("product out of stock")

	// ErrRedemptionNotFound is returned when a redemption cannot be found
	ErrRedemptionNotFound = errors.New("redemption not found")

	// ErrRedemptionNotPending is returned when confirming or cancelling a
	// redemption that has already left the pending state
	ErrRedemptionNotPending = errors.New("redemption is not pending")

	// ErrRedemptionExpired is returned when confirming a redemption after
	// its expiry window has passed
	ErrRedemptionExpired = errors.New("redemption code expired")

	// ErrPaymentNotFound is returned when a payment transaction cannot be found
	ErrPaymentNotFound = errors.New("payment transaction not found")
)
