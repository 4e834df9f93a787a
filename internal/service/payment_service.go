package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dirlenor/demo-crm-liff/internal/model"
	"github.com/dirlenor/demo-crm-liff/pkg/database"
)

// PaymentRepositoryInterface defines the interface for payment data access.
type PaymentRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, p *model.PaymentTransaction) error
	GetByID(ctx context.Context, id string) (*model.PaymentTransaction, error)
}

// PaymentService converts currency top-ups into points at a fixed 1:1 rate.
// This is a simulation layer; no real gateway is involved.
type PaymentService struct {
	pool     TxBeginner
	payments PaymentRepositoryInterface
	members  MemberRepositoryInterface
	txns     TransactionRepositoryInterface
}

// NewPaymentService creates a new PaymentService with the given pool and repositories.
func NewPaymentService(pool *pgxpool.Pool, payments PaymentRepositoryInterface, members MemberRepositoryInterface, txns TransactionRepositoryInterface) *PaymentService {
	return &PaymentService{pool: pool, payments: payments, members: members, txns: txns}
}

// NewPaymentServiceWithTxBeginner creates a PaymentService with a custom
// TxBeginner. Primarily used for testing.
func NewPaymentServiceWithTxBeginner(pool TxBeginner, payments PaymentRepositoryInterface, members MemberRepositoryInterface, txns TransactionRepositoryInterface) *PaymentService {
	return &PaymentService{pool: pool, payments: payments, members: members, txns: txns}
}

// Purchase records a top-up and credits the equal number of points in one
// transaction.
// Returns ErrInvalidAmount if amountBaht < 1, ErrMemberNotFound if the
// member doesn't exist.
func (s *PaymentService) Purchase(ctx context.Context, userID string, amountBaht int) (*model.PaymentTransaction, error) {
	if amountBaht < 1 {
		return nil, ErrInvalidAmount
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	if _, err := s.members.GetForUpdate(ctx, tx, userID); err != nil {
		return nil, err
	}

	payment := &model.PaymentTransaction{
		ID:         uuid.NewString(),
		UserID:     userID,
		AmountBaht: amountBaht,
		Points:     amountBaht, // fixed 1 baht : 1 point
	}
	if err := s.payments.Insert(ctx, tx, payment); err != nil {
		return nil, err
	}

	if _, err := creditPoints(ctx, tx, s.members, s.txns, userID, payment.Points, fmt.Sprintf("Top-up: %d baht", amountBaht)); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit top-up: %w", err)
	}

	return payment, nil
}

// GetByID retrieves a payment transaction.
// Returns ErrPaymentNotFound if the payment doesn't exist.
func (s *PaymentService) GetByID(ctx context.Context, id string) (*model.PaymentTransaction, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}
