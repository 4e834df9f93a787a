package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dirlenor/demo-crm-liff/internal/model"
	"github.com/dirlenor/demo-crm-liff/pkg/database"
)

// CouponRepositoryInterface defines the interface for QR coupon data access.
type CouponRepositoryInterface interface {
	Insert(ctx context.Context, code string, points int) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	Claim(ctx context.Context, tx database.TxQuerier, code, userID string) (int, error)
	Delete(ctx context.Context, code string) (bool, error)
	List(ctx context.Context) ([]model.Coupon, error)
	Counts(ctx context.Context) (int, int, error)
}

// CouponService provides business logic for single-use QR earn-codes.
type CouponService struct {
	pool    TxBeginner
	coupons CouponRepositoryInterface
	members MemberRepositoryInterface
	txns    TransactionRepositoryInterface
}

// NewCouponService creates a new CouponService with the given pool and repositories.
func NewCouponService(pool *pgxpool.Pool, coupons CouponRepositoryInterface, members MemberRepositoryInterface, txns TransactionRepositoryInterface) *CouponService {
	return &CouponService{pool: pool, coupons: coupons, members: members, txns: txns}
}

// NewCouponServiceWithTxBeginner creates a CouponService with a custom TxBeginner.
// Primarily used for testing.
func NewCouponServiceWithTxBeginner(pool TxBeginner, coupons CouponRepositoryInterface, members MemberRepositoryInterface, txns TransactionRepositoryInterface) *CouponService {
	return &CouponService{pool: pool, coupons: coupons, members: members, txns: txns}
}

// normalizeCode uppercases a coupon code. Codes are case-normalized at both
// creation and lookup so scans are case-insensitive.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create creates a new unused coupon.
// Returns ErrCouponExists if the code is already taken.
func (s *CouponService) Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	// Defense-in-depth: check for nil pointer even though handler validates
	if req == nil || req.Points == nil {
		return nil, ErrInvalidRequest
	}
	if *req.Points < 1 {
		return nil, ErrInvalidAmount
	}

	code := normalizeCode(req.Code)
	if err := s.coupons.Insert(ctx, code, *req.Points); err != nil {
		return nil, err
	}

	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get created coupon: %w", err)
	}
	return coupon, nil
}

// Get retrieves a coupon by code for the admin preview.
// Returns ErrCouponNotFound if the coupon doesn't exist.
func (s *CouponService) Get(ctx context.Context, code string) (*model.Coupon, error) {
	coupon, err := s.coupons.GetByCode(ctx, normalizeCode(code))
	if err != nil {
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

// List retrieves all coupons for the admin dashboard.
func (s *CouponService) List(ctx context.Context) ([]model.Coupon, error) {
	return s.coupons.List(ctx)
}

// Delete removes an unused coupon.
// Returns ErrCouponNotFound if the code doesn't exist and ErrCouponUsed if
// the coupon has already been claimed; used coupons are never deleted.
func (s *CouponService) Delete(ctx context.Context, code string) error {
	code = normalizeCode(code)

	deleted, err := s.coupons.Delete(ctx, code)
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	if deleted {
		return nil
	}

	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("get coupon: %w", err)
	}
	if coupon == nil {
		return ErrCouponNotFound
	}
	return ErrCouponUsed
}

// Claim atomically consumes a coupon for a member and credits its points.
// The compare-and-swap on the coupon row, the balance increment and the
// ledger row all commit in one transaction; of N concurrent claims on the
// same code exactly one succeeds.
// Returns:
//   - ErrMemberNotFound if the member doesn't exist
//   - ErrCouponInvalid if the code is absent or already used (conflated)
func (s *CouponService) Claim(ctx context.Context, code, userID string) (*model.ClaimCouponResponse, error) {
	code = normalizeCode(code)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	// 1. Lock the member row so the credit serializes with other mutations
	if _, err := s.members.GetForUpdate(ctx, tx, userID); err != nil {
		return nil, err
	}

	// 2. Test-and-set the coupon's used flag
	points, err := s.coupons.Claim(ctx, tx, code, userID)
	if err != nil {
		return nil, err
	}

	// 3. Credit the points with the matching ledger row
	balance, err := creditPoints(ctx, tx, s.members, s.txns, userID, points, "QR Code: "+code)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit claim: %w", err)
	}

	return &model.ClaimCouponResponse{Points: points, Balance: balance}, nil
}
