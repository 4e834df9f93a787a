package service

import (
	"context"
	"fmt"

	"github.com/dirlenor/demo-crm-liff/internal/model"
)

const (
	recentTransactionsLimit = 10
	allTransactionsLimit    = 100
)

// StatsService aggregates the admin dashboard figures.
type StatsService struct {
	members MemberRepositoryInterface
	txns    TransactionRepositoryInterface
	coupons CouponRepositoryInterface
}

// NewStatsService creates a new StatsService with the given repositories.
func NewStatsService(members MemberRepositoryInterface, txns TransactionRepositoryInterface, coupons CouponRepositoryInterface) *StatsService {
	return &StatsService{members: members, txns: txns, coupons: coupons}
}

// RecentTransactions lists the newest ledger rows across all members for
// the admin transactions page. Limit defaults to 100 and is capped there.
func (s *StatsService) RecentTransactions(ctx context.Context, limit int) ([]model.PointTransaction, error) {
	if limit <= 0 || limit > allTransactionsLimit {
		limit = allTransactionsLimit
	}
	txns, err := s.txns.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

// Stats computes the dashboard aggregates.
func (s *StatsService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	totalMembers, totalPoints, err := s.members.CountAndTotalPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("member stats: %w", err)
	}

	totalTxns, err := s.txns.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("transaction stats: %w", err)
	}

	recent, err := s.txns.ListRecent(ctx, recentTransactionsLimit)
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}

	totalCoupons, usedCoupons, err := s.coupons.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("coupon stats: %w", err)
	}

	return &model.DashboardStats{
		TotalMembers:       totalMembers,
		TotalPoints:        totalPoints,
		TotalTransactions:  totalTxns,
		TotalQRCodes:       totalCoupons,
		UsedQRCodes:        usedCoupons,
		RecentTransactions: recent,
	}, nil
}
