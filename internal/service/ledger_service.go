package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dirlenor/demo-crm-liff/internal/model"
	"github.com/dirlenor/demo-crm-liff/pkg/database"
)

// MemberRepositoryInterface defines the interface for member data access.
type MemberRepositoryInterface interface {
	Upsert(ctx context.Context, userID, displayName string, currentTour *string) (*model.Member, error)
	GetByID(ctx context.Context, userID string) (*model.Member, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, userID string) (*model.Member, error)
	AddBalance(ctx context.Context, tx database.TxQuerier, userID string, delta int) (int, error)
	List(ctx context.Context) ([]model.Member, error)
	CountAndTotalPoints(ctx context.Context) (int, int, error)
}

// TransactionRepositoryInterface defines the interface for ledger data access.
type TransactionRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, userID, txType string, amount int, description string) (string, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]model.PointTransaction, error)
	ListRecent(ctx context.Context, limit int) ([]model.PointTransaction, error)
	Count(ctx context.Context) (int, error)
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// LedgerService owns member balances. Every balance mutation commits
// together with exactly one ledger row, so the sum of signed transaction
// amounts always reconciles with points_balance.
type LedgerService struct {
	pool    TxBeginner
	members MemberRepositoryInterface
	txns    TransactionRepositoryInterface
}

// NewLedgerService creates a new LedgerService with the given pool and repositories.
func NewLedgerService(pool *pgxpool.Pool, members MemberRepositoryInterface, txns TransactionRepositoryInterface) *LedgerService {
	return &LedgerService{pool: pool, members: members, txns: txns}
}

// NewLedgerServiceWithTxBeginner creates a LedgerService with a custom TxBeginner.
// Primarily used for testing.
func NewLedgerServiceWithTxBeginner(pool TxBeginner, members MemberRepositoryInterface, txns TransactionRepositoryInterface) *LedgerService {
	return &LedgerService{pool: pool, members: members, txns: txns}
}

// creditPoints applies an earn to a member inside the caller's transaction:
// balance increment plus the matching ledger row. The member row must
// already be locked via GetForUpdate. Returns the new balance.
func creditPoints(ctx context.Context, tx database.TxQuerier, members MemberRepositoryInterface, txns TransactionRepositoryInterface, userID string, amount int, description string) (int, error) {
	balance, err := members.AddBalance(ctx, tx, userID, amount)
	if err != nil {
		return 0, fmt.Errorf("credit balance: %w", err)
	}
	if _, err := txns.Insert(ctx, tx, userID, model.TransactionEarn, amount, description); err != nil {
		return 0, fmt.Errorf("record earn: %w", err)
	}
	return balance, nil
}

// debitPoints applies a redeem inside the caller's transaction. The caller
// must have locked the member row and verified the balance covers amount.
func debitPoints(ctx context.Context, tx database.TxQuerier, members MemberRepositoryInterface, txns TransactionRepositoryInterface, userID string, amount int, description string) (int, error) {
	balance, err := members.AddBalance(ctx, tx, userID, -amount)
	if err != nil {
		return 0, fmt.Errorf("debit balance: %w", err)
	}
	if _, err := txns.Insert(ctx, tx, userID, model.TransactionRedeem, amount, description); err != nil {
		return 0, fmt.Errorf("record redeem: %w", err)
	}
	return balance, nil
}

// UpsertMember creates a member on first contact (balance 0) or refreshes
// the profile of an existing one without touching their balance.
func (s *LedgerService) UpsertMember(ctx context.Context, req *model.UpsertMemberRequest) (*model.Member, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	return s.members.Upsert(ctx, req.UserID, req.DisplayName, req.CurrentTour)
}

// GetMember retrieves a member and their balance.
// Returns ErrMemberNotFound if the member doesn't exist.
func (s *LedgerService) GetMember(ctx context.Context, userID string) (*model.Member, error) {
	member, err := s.members.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// ListMembers retrieves all members for the admin dashboard.
func (s *LedgerService) ListMembers(ctx context.Context) ([]model.Member, error) {
	return s.members.List(ctx)
}

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// History retrieves a member's transactions, newest first.
func (s *LedgerService) History(ctx context.Context, userID string, limit int) ([]model.PointTransaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.txns.ListByUser(ctx, userID, limit)
}

// Earn atomically credits points to a member and appends the earn row.
// Returns the new balance.
// Returns ErrInvalidAmount if amount < 1, ErrMemberNotFound if the member
// doesn't exist.
func (s *LedgerService) Earn(ctx context.Context, userID string, amount int, description string) (int, error) {
	if amount < 1 {
		return 0, ErrInvalidAmount
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	if _, err := s.members.GetForUpdate(ctx, tx, userID); err != nil {
		return 0, err
	}

	balance, err := creditPoints(ctx, tx, s.members, s.txns, userID, amount, description)
	if err != nil {
		return 0, err
	}

	return balance, tx.Commit(ctx)
}

// Redeem atomically debits points from a member. Insufficient balance is an
// expected outcome reported as ok = false, not an error. Two concurrent
// redeems serialize on the member row lock, so the balance can never go
// negative.
// Returns ErrInvalidAmount if amount < 1, ErrMemberNotFound if the member
// doesn't exist.
func (s *LedgerService) Redeem(ctx context.Context, userID string, amount int, description string) (bool, int, error) {
	if amount < 1 {
		return false, 0, ErrInvalidAmount
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	member, err := s.members.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return false, 0, err
	}

	if member.PointsBalance < amount {
		return false, member.PointsBalance, nil
	}

	balance, err := debitPoints(ctx, tx, s.members, s.txns, userID, amount, description)
	if err != nil {
		return false, 0, err
	}

	return true, balance, tx.Commit(ctx)
}

// AdjustBalance sets a member's balance to an absolute value, recording the
// delta as a regular earn or redeem row so the ledger still reconciles.
// This is the admin dashboard's manual correction path.
func (s *LedgerService) AdjustBalance(ctx context.Context, userID string, newBalance int) (int, error) {
	if newBalance < 0 {
		return 0, ErrInvalidAmount
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	member, err := s.members.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return 0, err
	}

	delta := newBalance - member.PointsBalance
	switch {
	case delta > 0:
		if _, err := creditPoints(ctx, tx, s.members, s.txns, userID, delta, "Admin adjustment"); err != nil {
			return 0, err
		}
	case delta < 0:
		if _, err := debitPoints(ctx, tx, s.members, s.txns, userID, -delta, "Admin adjustment"); err != nil {
			return 0, err
		}
	default:
		return member.PointsBalance, nil
	}

	return newBalance, tx.Commit(ctx)
}
