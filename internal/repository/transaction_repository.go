package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dirlenor/demo-crm-liff/internal/model"
	"github.com/dirlenor/demo-crm-liff/pkg/database"
)

// TransactionRepository provides data access for the point_transactions
// ledger. Rows are append-only; there is no update or delete path.
type TransactionRepository struct {
	pool PoolInterface
}

// NewTransactionRepository creates a new TransactionRepository with the given pool.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// NewTransactionRepositoryWithPool creates a new TransactionRepository with a
// custom pool interface. This is primarily used for testing.
func NewTransactionRepositoryWithPool(pool PoolInterface) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Insert appends a ledger row within a transaction. The caller is
// responsible for mutating the member balance in the same transaction.
func (r *TransactionRepository) Insert(ctx context.Context, tx database.TxQuerier, userID, txType string, amount int, description string) (string, error) {
	id := uuid.NewString()
	query := `INSERT INTO point_transactions (id, line_user_id, type, amount, description)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.Exec(ctx, query, id, userID, txType, amount, description); err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	return id, nil
}

const transactionColumns = `id, line_user_id, type, amount, description, created_at`

// ListByUser retrieves a member's transactions, newest first.
// On success, returns an empty slice (not nil) when no rows exist.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.PointTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM point_transactions
		WHERE line_user_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions for %s: %w", userID, err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListRecent retrieves the most recent transactions across all members.
func (r *TransactionRepository) ListRecent(ctx context.Context, limit int) ([]model.PointTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM point_transactions
		ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Count returns the total number of ledger rows.
func (r *TransactionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM point_transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

func scanTransactions(rows pgx.Rows) ([]model.PointTransaction, error) {
	txns := []model.PointTransaction{}
	for rows.Next() {
		var t model.PointTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}
