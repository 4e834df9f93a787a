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

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// MemberRepository provides data access for tour members using pgx.
type MemberRepository struct {
	pool PoolInterface
}

// NewMemberRepository creates a new MemberRepository with the given pool.
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

// NewMemberRepositoryWithPool creates a new MemberRepository with a custom
// pool interface. This is primarily used for testing.
func NewMemberRepositoryWithPool(pool PoolInterface) *MemberRepository {
	return &MemberRepository{pool: pool}
}

const memberColumns = `line_user_id, display_name, current_tour, points_balance, created_at, updated_at`

// Upsert creates a member on first contact or refreshes their profile.
// The balance of an existing member is never modified here.
func (r *MemberRepository) Upsert(ctx context.Context, userID, displayName string, currentTour *string) (*model.Member, error) {
	query := `INSERT INTO tour_members (line_user_id, display_name, current_tour, points_balance)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (line_user_id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    current_tour = EXCLUDED.current_tour,
		    updated_at = now()
		RETURNING ` + memberColumns

	var m model.Member
	err := r.pool.QueryRow(ctx, query, userID, displayName, currentTour).Scan(
		&m.UserID, &m.DisplayName, &m.CurrentTour, &m.PointsBalance, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert member %s: %w", userID, err)
	}
	return &m, nil
}

// GetByID retrieves a member by their user ID.
// Returns nil, nil if the member is not found (service layer handles this).
func (r *MemberRepository) GetByID(ctx context.Context, userID string) (*model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM tour_members WHERE line_user_id = $1`

	var m model.Member
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&m.UserID, &m.DisplayName, &m.CurrentTour, &m.PointsBalance, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get member %s: %w", userID, err)
	}
	return &m, nil
}

// GetForUpdate retrieves a member with a row lock (SELECT FOR UPDATE).
// This serializes all balance mutations for the member until the
// transaction completes.
// Returns service.ErrMemberNotFound if the member doesn't exist.
func (r *MemberRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, userID string) (*model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM tour_members WHERE line_user_id = $1 FOR UPDATE`

	var m model.Member
	err := tx.QueryRow(ctx, query, userID).Scan(
		&m.UserID, &m.DisplayName, &m.CurrentTour, &m.PointsBalance, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrMemberNotFound
		}
		return nil, fmt.Errorf("get member for update %s: %w", userID, err)
	}
	return &m, nil
}

// AddBalance applies a signed delta to the member's balance and returns the
// new balance. Must be called within a transaction after locking the row.
func (r *MemberRepository) AddBalance(ctx context.Context, tx database.TxQuerier, userID string, delta int) (int, error) {
	query := `UPDATE tour_members
		SET points_balance = points_balance + $2, updated_at = now()
		WHERE line_user_id = $1
		RETURNING points_balance`

	var balance int
	if err := tx.QueryRow(ctx, query, userID, delta).Scan(&balance); err != nil {
		return 0, fmt.Errorf("add balance for %s: %w", userID, err)
	}
	return balance, nil
}

// List retrieves all members, newest first.
func (r *MemberRepository) List(ctx context.Context) ([]model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM tour_members ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := []model.Member{}
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.UserID, &m.DisplayName, &m.CurrentTour, &m.PointsBalance, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate member rows: %w", err)
	}
	return members, nil
}

// CountAndTotalPoints returns the number of members and the sum of all
// outstanding balances, for the admin dashboard.
func (r *MemberRepository) CountAndTotalPoints(ctx context.Context) (int, int, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(points_balance), 0) FROM tour_members`

	var count, total int
	if err := r.pool.QueryRow(ctx, query).Scan(&count, &total); err != nil {
		return 0, 0, fmt.Errorf("count members: %w", err)
	}
	return count, total, nil
}
