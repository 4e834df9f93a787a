package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dirlenor/demo-crm-liff/internal/model"
	"github.com/dirlenor/demo-crm-liff/internal/service"
	"github.com/dirlenor/demo-crm-liff/pkg/database"
)

// CouponRepository provides data access for QR coupons using pgx.
type CouponRepository struct {
	pool PoolInterface
}

// NewCouponRepository creates a new CouponRepository with the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// NewCouponRepositoryWithPool creates a new CouponRepository with a custom
// pool interface. This is primarily used for testing.
func NewCouponRepositoryWithPool(pool PoolInterface) *CouponRepository {
	return &CouponRepository{pool: pool}
}

const couponColumns = `code, points, used, used_by, used_at, created_at`

// Insert inserts a new unused coupon. The code must already be uppercased
// by the service layer.
// Returns service.ErrCouponExists if the code is already taken.
func (r *CouponRepository) Insert(ctx context.Context, code string, points int) error {
	query := `INSERT INTO qr_coupons (code, points, used) VALUES ($1, $2, FALSE)`

	_, err := r.pool.Exec(ctx, query, code, points)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrCouponExists
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

// GetByCode retrieves a coupon by its code.
// Returns nil, nil if the coupon is not found (service layer handles this).
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM qr_coupons WHERE code = $1`

	var c model.Coupon
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&c.Code, &c.Points, &c.Used, &c.UsedBy, &c.UsedAt, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get coupon %s: %w", code, err)
	}
	return &c, nil
}

// Claim atomically marks an unused coupon as used by the given member and
// returns the points it carries. The single compare-and-swap UPDATE is what
// guarantees a coupon is claimed at most once: of N concurrent claims on
// the same code exactly one matches used = FALSE.
// Returns service.ErrCouponInvalid when the code is absent or already used;
// the two cases are intentionally not distinguished.
func (r *CouponRepository) Claim(ctx context.Context, tx database.TxQuerier, code, userID string) (int, error) {
	query := `UPDATE qr_coupons
		SET used = TRUE, used_by = $2, used_at = now()
		WHERE code = $1 AND used = FALSE
		RETURNING points`

	var points int
	err := tx.QueryRow(ctx, query, code, userID).Scan(&points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, service.ErrCouponInvalid
		}
		return 0, fmt.Errorf("claim coupon %s: %w", code, err)
	}
	return points, nil
}

// Delete removes an unused coupon. Used coupons are part of the audit trail
// and are never deleted.
// Returns false if no unused coupon with the code exists.
func (r *CouponRepository) Delete(ctx context.Context, code string) (bool, error) {
	query := `DELETE FROM qr_coupons WHERE code = $1 AND used = FALSE`

	tag, err := r.pool.Exec(ctx, query, code)
	if err != nil {
		return false, fmt.Errorf("delete coupon %s: %w", code, err)
	}
	return tag.RowsAffected() > 0, nil
}

// List retrieves all coupons, newest first.
func (r *CouponRepository) List(ctx context.Context) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM qr_coupons ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		var c model.Coupon
		if err := rows.Scan(&c.Code, &c.Points, &c.Used, &c.UsedBy, &c.UsedAt, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupon rows: %w", err)
	}
	return coupons, nil
}

// Counts returns the total and used coupon counts for the admin dashboard.
func (r *CouponRepository) Counts(ctx context.Context) (int, int, error) {
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE used) FROM qr_coupons`

	var total, used int
	if err := r.pool.QueryRow(ctx, query).Scan(&total, &used); err != nil {
		return 0, 0, fmt.Errorf("count coupons: %w", err)
	}
	return total, used, nil
}
