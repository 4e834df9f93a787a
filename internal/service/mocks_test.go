package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dirlenor/demo-crm-liff/internal/model"
	"github.com/dirlenor/demo-crm-liff/pkg/database"
)

// mockTx is a mock implementation of pgx.Tx for testing transactions.
type mockTx struct {
	commitFn   func(ctx context.Context) error
	rollbackFn func(ctx context.Context) error

	committed  bool
	rolledBack bool
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("nested transactions not supported")
}

func (m *mockTx) Commit(ctx context.Context) error {
	m.committed = true
	if m.commitFn != nil {
		return m.commitFn(ctx)
	}
	return nil
}

func (m *mockTx) Rollback(ctx context.Context) error {
	m.rolledBack = true
	if m.rollbackFn != nil {
		return m.rollbackFn(ctx)
	}
	return nil
}

func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (m *mockTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *mockTx) Conn() *pgx.Conn {
	return nil
}

// mockTxBeginner is a mock implementation of TxBeginner.
type mockTxBeginner struct {
	beginFn func(ctx context.Context) (pgx.Tx, error)
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.beginFn != nil {
		return m.beginFn(ctx)
	}
	return &mockTx{}, nil
}

// beginnerFor returns a TxBeginner that always hands out the given tx, so
// tests can assert on its committed/rolledBack flags afterwards.
func beginnerFor(tx *mockTx) *mockTxBeginner {
	return &mockTxBeginner{beginFn: func(ctx context.Context) (pgx.Tx, error) {
		return tx, nil
	}}
}

// mockMemberRepository is a mock implementation of MemberRepositoryInterface.
type mockMemberRepository struct {
	upsertFn              func(ctx context.Context, userID, displayName string, currentTour *string) (*model.Member, error)
	getByIDFn             func(ctx context.Context, userID string) (*model.Member, error)
	getForUpdateFn        func(ctx context.Context, tx database.TxQuerier, userID string) (*model.Member, error)
	addBalanceFn          func(ctx context.Context, tx database.TxQuerier, userID string, delta int) (int, error)
	listFn                func(ctx context.Context) ([]model.Member, error)
	countAndTotalPointsFn func(ctx context.Context) (int, int, error)
}

func (m *mockMemberRepository) Upsert(ctx context.Context, userID, displayName string, currentTour *string) (*model.Member, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, userID, displayName, currentTour)
	}
	return &model.Member{UserID: userID, DisplayName: displayName, CurrentTour: currentTour}, nil
}

func (m *mockMemberRepository) GetByID(ctx context.Context, userID string) (*model.Member, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockMemberRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, userID string) (*model.Member, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, userID)
	}
	return &model.Member{UserID: userID}, nil
}

func (m *mockMemberRepository) AddBalance(ctx context.Context, tx database.TxQuerier, userID string, delta int) (int, error) {
	if m.addBalanceFn != nil {
		return m.addBalanceFn(ctx, tx, userID, delta)
	}
	return delta, nil
}

func (m *mockMemberRepository) List(ctx context.Context) ([]model.Member, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Member{}, nil
}

func (m *mockMemberRepository) CountAndTotalPoints(ctx context.Context) (int, int, error) {
	if m.countAndTotalPointsFn != nil {
		return m.countAndTotalPointsFn(ctx)
	}
	return 0, 0, nil
}

// mockTransactionRepository is a mock implementation of TransactionRepositoryInterface.
type mockTransactionRepository struct {
	insertFn     func(ctx context.Context, tx database.TxQuerier, userID, txType string, amount int, description string) (string, error)
	listByUserFn func(ctx context.Context, userID string, limit int) ([]model.PointTransaction, error)
	listRecentFn func(ctx context.Context, limit int) ([]model.PointTransaction, error)
	countFn      func(ctx context.Context) (int, error)
}

func (m *mockTransactionRepository) Insert(ctx context.Context, tx database.TxQuerier, userID, txType string, amount int, description string) (string, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, userID, txType, amount, description)
	}
	return "txn-id", nil
}

func (m *mockTransactionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.PointTransaction, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID, limit)
	}
	return []model.PointTransaction{}, nil
}

func (m *mockTransactionRepository) ListRecent(ctx context.Context, limit int) ([]model.PointTransaction, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, limit)
	}
	return []model.PointTransaction{}, nil
}

func (m *mockTransactionRepository) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

// mockCouponRepository is a mock implementation of CouponRepositoryInterface.
type mockCouponRepository struct {
	insertFn    func(ctx context.Context, code string, points int) error
	getByCodeFn func(ctx context.Context, code string) (*model.Coupon, error)
	claimFn     func(ctx context.Context, tx database.TxQuerier, code, userID string) (int, error)
	deleteFn    func(ctx context.Context, code string) (bool, error)
	listFn      func(ctx context.Context) ([]model.Coupon, error)
	countsFn    func(ctx context.Context) (int, int, error)
}

func (m *mockCouponRepository) Insert(ctx context.Context, code string, points int) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, code, points)
	}
	return nil
}

func (m *mockCouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, nil
}

func (m *mockCouponRepository) Claim(ctx context.Context, tx database.TxQuerier, code, userID string) (int, error) {
	if m.claimFn != nil {
		return m.claimFn(ctx, tx, code, userID)
	}
	return 0, ErrCouponInvalid
}

func (m *mockCouponRepository) Delete(ctx context.Context, code string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, code)
	}
	return false, nil
}

func (m *mockCouponRepository) List(ctx context.Context) ([]model.Coupon, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Coupon{}, nil
}

func (m *mockCouponRepository) Counts(ctx context.Context) (int, int, error) {
	if m.countsFn != nil {
		return m.countsFn(ctx)
	}
	return 0, 0, nil
}

// mockProductRepository is a mock implementation of ProductRepositoryInterface.
type mockProductRepository struct {
	insertFn         func(ctx context.Context, p *model.Product) error
	getByIDFn        func(ctx context.Context, id string) (*model.Product, error)
	getForUpdateFn   func(ctx context.Context, tx database.TxQuerier, id string) (*model.Product, error)
	listActiveFn     func(ctx context.Context) ([]model.Product, error)
	listAllFn        func(ctx context.Context) ([]model.Product, error)
	decrementStockFn func(ctx context.Context, tx database.TxQuerier, id string) error
	incrementStockFn func(ctx context.Context, tx database.TxQuerier, id string) error
	updateFn         func(ctx context.Context, p *model.Product) error
	deleteFn         func(ctx context.Context, id string) error
}

func (m *mockProductRepository) Insert(ctx context.Context, p *model.Product) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, p)
	}
	return nil
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockProductRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id string) (*model.Product, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, id)
	}
	return nil, ErrProductNotFound
}

func (m *mockProductRepository) ListActive(ctx context.Context) ([]model.Product, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx)
	}
	return []model.Product{}, nil
}

func (m *mockProductRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return []model.Product{}, nil
}

func (m *mockProductRepository) DecrementStock(ctx context.Context, tx database.TxQuerier, id string) error {
	if m.decrementStockFn != nil {
		return m.decrementStockFn(ctx, tx, id)
	}
	return nil
}

func (m *mockProductRepository) IncrementStock(ctx context.Context, tx database.TxQuerier, id string) error {
	if m.incrementStockFn != nil {
		return m.incrementStockFn(ctx, tx, id)
	}
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, p *model.Product) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockRedemptionRepository is a mock implementation of RedemptionRepositoryInterface.
type mockRedemptionRepository struct {
	insertFn       func(ctx context.Context, tx database.TxQuerier, red *model.Redemption) error
	getDetailFn    func(ctx context.Context, id string) (*model.RedemptionDetail, error)
	listByUserFn   func(ctx context.Context, userID string) ([]model.RedemptionDetail, error)
	getForUpdateFn func(ctx context.Context, tx database.TxQuerier, id string) (*model.Redemption, error)
	updateStatusFn func(ctx context.Context, tx database.TxQuerier, id, from, to string) (bool, error)
}

func (m *mockRedemptionRepository) Insert(ctx context.Context, tx database.TxQuerier, red *model.Redemption) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, red)
	}
	return nil
}

func (m *mockRedemptionRepository) GetDetail(ctx context.Context, id string) (*model.RedemptionDetail, error) {
	if m.getDetailFn != nil {
		return m.getDetailFn(ctx, id)
	}
	return nil, nil
}

func (m *mockRedemptionRepository) ListByUser(ctx context.Context, userID string) ([]model.RedemptionDetail, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return []model.RedemptionDetail{}, nil
}

func (m *mockRedemptionRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id string) (*model.Redemption, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, tx, id)
	}
	return nil, nil
}

func (m *mockRedemptionRepository) UpdateStatus(ctx context.Context, tx database.TxQuerier, id, from, to string) (bool, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, tx, id, from, to)
	}
	return true, nil
}

// mockPaymentRepository is a mock implementation of PaymentRepositoryInterface.
type mockPaymentRepository struct {
	insertFn  func(ctx context.Context, tx database.TxQuerier, p *model.PaymentTransaction) error
	getByIDFn func(ctx context.Context, id string) (*model.PaymentTransaction, error)
}

func (m *mockPaymentRepository) Insert(ctx context.Context, tx database.TxQuerier, p *model.PaymentTransaction) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, p)
	}
	return nil
}

func (m *mockPaymentRepository) GetByID(ctx context.Context, id string) (*model.PaymentTransaction, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}
