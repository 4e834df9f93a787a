package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dirlenor/demo-crm-liff/internal/model"
	"github.com/dirlenor/demo-crm-liff/pkg/database"
)

// RedemptionRepository provides data access for product redemptions using pgx.
type RedemptionRepository struct {
	pool PoolInterface
}

// NewRedemptionRepository creates a new RedemptionRepository with the given pool.
func NewRedemptionRepository(pool *pgxpool.Pool) *RedemptionRepository {
	return &RedemptionRepository{pool: pool}
}

// NewRedemptionRepositoryWithPool creates a new RedemptionRepository with a
// custom pool interface. This is primarily used for testing.
func NewRedemptionRepositoryWithPool(pool PoolInterface) *RedemptionRepository {
	return &RedemptionRepository{pool: pool}
}

// Insert inserts a pending redemption within a transaction. The debit and
// stock decrement must happen in the same transaction.
func (r *RedemptionRepository) Insert(ctx context.Context, tx database.TxQuerier, red *model.Redemption) error {
	query := `INSERT INTO product_redemptions (id, line_user_id, product_id, points_used, redemption_code, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := tx.QueryRow(ctx, query,
		red.ID, red.UserID, red.ProductID, red.PointsUsed, red.RedemptionCode, red.Status, red.ExpiresAt,
	).Scan(&red.CreatedAt, &red.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert redemption: %w", err)
	}
	return nil
}

const redemptionDetailQuery = `SELECT
		r.id, r.line_user_id, r.product_id, r.points_used, r.redemption_code,
		r.status, r.expires_at, r.created_at, r.updated_at,
		p.id, p.name, p.name_en, p.description, p.description_en, p.image_url,
		p.points_required, p.stock, p.active, p.created_at, p.updated_at
	FROM product_redemptions r
	JOIN products p ON p.id = r.product_id`

func scanRedemptionDetail(row pgx.Row, d *model.RedemptionDetail) error {
	return row.Scan(
		&d.ID, &d.UserID, &d.ProductID, &d.PointsUsed, &d.RedemptionCode,
		&d.Status, &d.ExpiresAt, &d.CreatedAt, &d.UpdatedAt,
		&d.Product.ID, &d.Product.Name, &d.Product.NameEN, &d.Product.Description,
		&d.Product.DescriptionEN, &d.Product.ImageURL, &d.Product.PointsRequired,
		&d.Product.Stock, &d.Product.Active, &d.Product.CreatedAt, &d.Product.UpdatedAt,
	)
}

// GetDetail retrieves a redemption joined with its product.
// Returns nil, nil if the redemption is not found (service layer handles this).
func (r *RedemptionRepository) GetDetail(ctx context.Context, id string) (*model.RedemptionDetail, error) {
	query := redemptionDetailQuery + ` WHERE r.id = $1`

	var d model.RedemptionDetail
	if err := scanRedemptionDetail(r.pool.QueryRow(ctx, query, id), &d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get redemption %s: %w", id, err)
	}
	return &d, nil
}

// ListByUser retrieves a member's redemptions with product details, newest first.
func (r *RedemptionRepository) ListByUser(ctx context.Context, userID string) ([]model.RedemptionDetail, error) {
	query := redemptionDetailQuery + ` WHERE r.line_user_id = $1 ORDER BY r.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list redemptions for %s: %w", userID, err)
	}
	defer rows.Close()

	details := []model.RedemptionDetail{}
	for rows.Next() {
		var d model.RedemptionDetail
		if err := scanRedemptionDetail(rows, &d); err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate redemption rows: %w", err)
	}
	return details, nil
}

// GetForUpdate retrieves a redemption with a row lock (SELECT FOR UPDATE),
// serializing status transitions.
// Returns nil, nil if the redemption is not found.
func (r *RedemptionRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id string) (*model.Redemption, error) {
	query := `SELECT id, line_user_id, product_id, points_used, redemption_code, status, expires_at, created_at, updated_at
		FROM product_redemptions WHERE id = $1 FOR UPDATE`

	var red model.Redemption
	err := tx.QueryRow(ctx, query, id).Scan(
		&red.ID, &red.UserID, &red.ProductID, &red.PointsUsed, &red.RedemptionCode,
		&red.Status, &red.ExpiresAt, &red.CreatedAt, &red.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get redemption for update %s: %w", id, err)
	}
	return &red, nil
}

// UpdateStatus transitions a redemption from one status to another as a
// compare-and-swap. Returns false if the redemption was not in the expected
// status (or doesn't exist).
func (r *RedemptionRepository) UpdateStatus(ctx context.Context, tx database.TxQuerier, id, from, to string) (bool, error) {
	query := `UPDATE product_redemptions SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2`

	tag, err := tx.Exec(ctx, query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("update redemption status %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}
