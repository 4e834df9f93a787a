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

// PaymentRepository provides data access for top-up payment transactions.
type PaymentRepository struct {
	pool PoolInterface
}

// NewPaymentRepository creates a new PaymentRepository with the given pool.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// NewPaymentRepositoryWithPool creates a new PaymentRepository with a custom
// pool interface. This is primarily used for testing.
func NewPaymentRepositoryWithPool(pool PoolInterface) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Insert inserts a payment transaction within a transaction. The matching
// point credit must commit in the same transaction.
func (r *PaymentRepository) Insert(ctx context.Context, tx database.TxQuerier, p *model.PaymentTransaction) error {
	query := `INSERT INTO payment_transactions (id, line_user_id, amount_baht, points)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := tx.QueryRow(ctx, query, p.ID, p.UserID, p.AmountBaht, p.Points).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a payment transaction.
// Returns nil, nil if not found (service layer handles this).
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*model.PaymentTransaction, error) {
	query := `SELECT id, line_user_id, amount_baht, points, created_at
		FROM payment_transactions WHERE id = $1`

	var p model.PaymentTransaction
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.UserID, &p.AmountBaht, &p.Points, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment transaction %s: %w", id, err)
	}
	return &p, nil
}
