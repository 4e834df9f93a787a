package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dirlenor/demo-crm-liff/internal/model"
	"github.com/dirlenor/demo-crm-liff/pkg/database"
)

// RedemptionRepositoryInterface defines the interface for redemption data access.
type RedemptionRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, red *model.Redemption) error
	GetDetail(ctx context.Context, id string) (*model.RedemptionDetail, error)
	ListByUser(ctx context.Context, userID string) ([]model.RedemptionDetail, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id string) (*model.Redemption, error)
	UpdateStatus(ctx context.Context, tx database.TxQuerier, id, from, to string) (bool, error)
}

// RedemptionService issues time-limited redemption codes in exchange for
// points. The debit, stock decrement, code generation and redemption row all
// commit as one transaction; a partial state is structurally impossible.
type RedemptionService struct {
	pool        TxBeginner
	redemptions RedemptionRepositoryInterface
	products    ProductRepositoryInterface
	members     MemberRepositoryInterface
	txns        TransactionRepositoryInterface
	ttl         time.Duration
	now         func() time.Time
}

// NewRedemptionService creates a new RedemptionService. ttl is the window a
// member has to present the issued code.
func NewRedemptionService(pool *pgxpool.Pool, redemptions RedemptionRepositoryInterface, products ProductRepositoryInterface, members MemberRepositoryInterface, txns TransactionRepositoryInterface, ttl time.Duration) *RedemptionService {
	return &RedemptionService{
		pool:        pool,
		redemptions: redemptions,
		products:    products,
		members:     members,
		txns:        txns,
		ttl:         ttl,
		now:         time.Now,
	}
}

// NewRedemptionServiceWithTxBeginner creates a RedemptionService with a
// custom TxBeginner and clock. Primarily used for testing.
func NewRedemptionServiceWithTxBeginner(pool TxBeginner, redemptions RedemptionRepositoryInterface, products ProductRepositoryInterface, members MemberRepositoryInterface, txns TransactionRepositoryInterface, ttl time.Duration, now func() time.Time) *RedemptionService {
	return &RedemptionService{
		pool:        pool,
		redemptions: redemptions,
		products:    products,
		members:     members,
		txns:        txns,
		ttl:         ttl,
		now:         now,
	}
}

// newRedemptionCode generates a short scannable code for counter staff.
func newRedemptionCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "RDM-" + raw[:8]
}

// Redeem exchanges points for a product and issues a pending redemption
// with an expiring code. Lock order is product row then member row, the
// same order the cancel path uses.
// Returns:
//   - ErrProductNotFound if the product is absent or inactive
//   - ErrOutOfStock if a finite stock is exhausted
//   - ErrMemberNotFound if the member doesn't exist
//   - ErrInsufficientPoints if the balance doesn't cover the price
func (s *RedemptionService) Redeem(ctx context.Context, userID, productID string) (*model.RedeemProductResponse, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	// 1. Lock the product row; inactive products are invisible to members
	product, err := s.products.GetForUpdate(ctx, tx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, ErrProductNotFound
	}

	// 2. Check stock
	if !product.InStock() {
		return nil, ErrOutOfStock
	}

	// 3. Lock the member row and check the balance
	member, err := s.members.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if member.PointsBalance < product.PointsRequired {
		return nil, ErrInsufficientPoints
	}

	// 4. Debit the price with its ledger row
	if _, err := debitPoints(ctx, tx, s.members, s.txns, userID, product.PointsRequired, "Redeem: "+product.Name); err != nil {
		return nil, err
	}

	// 5. Decrement stock unless unlimited
	if product.Stock != model.UnlimitedStock {
		if err := s.products.DecrementStock(ctx, tx, productID); err != nil {
			return nil, err
		}
	}

	// 6. Issue the pending redemption with its expiring code
	red := &model.Redemption{
		ID:             uuid.NewString(),
		UserID:         userID,
		ProductID:      productID,
		PointsUsed:     product.PointsRequired,
		RedemptionCode: newRedemptionCode(),
		Status:         model.RedemptionPending,
		ExpiresAt:      s.now().Add(s.ttl),
	}
	if err := s.redemptions.Insert(ctx, tx, red); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit redemption: %w", err)
	}

	return &model.RedeemProductResponse{
		RedemptionID:   red.ID,
		RedemptionCode: red.RedemptionCode,
	}, nil
}

// decorate fills the lazily computed expiry fields on a detail row. A code
// past expires_at reads as expired no matter what status is stored.
func (s *RedemptionService) decorate(d *model.RedemptionDetail) {
	remaining := d.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		d.RemainingSeconds = 0
		d.Expired = true
		return
	}
	d.RemainingSeconds = int(remaining.Seconds())
}

// GetDetail retrieves a redemption joined with its product snapshot.
// Returns ErrRedemptionNotFound if the redemption doesn't exist.
func (s *RedemptionService) GetDetail(ctx context.Context, id string) (*model.RedemptionDetail, error) {
	detail, err := s.redemptions.GetDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get redemption: %w", err)
	}
	if detail == nil {
		return nil, ErrRedemptionNotFound
	}
	s.decorate(detail)
	return detail, nil
}

// ListByUser retrieves a member's redemptions with product details.
func (s *RedemptionService) ListByUser(ctx context.Context, userID string) ([]model.RedemptionDetail, error) {
	details, err := s.redemptions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range details {
		s.decorate(&details[i])
	}
	return details, nil
}

// Confirm marks a pending redemption as completed, the staff-scan step at
// the counter.
// Returns:
//   - ErrRedemptionNotFound if the redemption doesn't exist
//   - ErrRedemptionNotPending if it was already completed or cancelled
//   - ErrRedemptionExpired if the code's window has passed
func (s *RedemptionService) Confirm(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	red, err := s.redemptions.GetForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if red == nil {
		return ErrRedemptionNotFound
	}
	if red.Status != model.RedemptionPending {
		return ErrRedemptionNotPending
	}
	if !s.now().Before(red.ExpiresAt) {
		return ErrRedemptionExpired
	}

	ok, err := s.redemptions.UpdateStatus(ctx, tx, id, model.RedemptionPending, model.RedemptionCompleted)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRedemptionNotPending
	}

	return tx.Commit(ctx)
}

// Cancel voids a pending redemption, refunding the debited points and
// returning one unit of finite stock in the same transaction. Lock order
// is redemption, product, member.
// Returns:
//   - ErrRedemptionNotFound if the redemption doesn't exist
//   - ErrRedemptionNotPending if it was already completed or cancelled
func (s *RedemptionService) Cancel(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	red, err := s.redemptions.GetForUpdate(ctx, tx, id)
	if err != nil {
		return err
	}
	if red == nil {
		return ErrRedemptionNotFound
	}
	if red.Status != model.RedemptionPending {
		return ErrRedemptionNotPending
	}

	product, err := s.products.GetForUpdate(ctx, tx, red.ProductID)
	if err != nil {
		return err
	}
	if product.Stock != model.UnlimitedStock {
		if err := s.products.IncrementStock(ctx, tx, red.ProductID); err != nil {
			return err
		}
	}

	if _, err := s.members.GetForUpdate(ctx, tx, red.UserID); err != nil {
		return err
	}
	if _, err := creditPoints(ctx, tx, s.members, s.txns, red.UserID, red.PointsUsed, "Refund: "+product.Name); err != nil {
		return err
	}

	ok, err := s.redemptions.UpdateStatus(ctx, tx, id, model.RedemptionPending, model.RedemptionCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRedemptionNotPending
	}

	return tx.Commit(ctx)
}
