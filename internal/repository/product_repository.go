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

// ProductRepository provides data access for catalog products using pgx.
type ProductRepository struct {
	pool PoolInterface
}

// NewProductRepository creates a new ProductRepository with the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// NewProductRepositoryWithPool creates a new ProductRepository with a custom
// pool interface. This is primarily used for testing.
func NewProductRepositoryWithPool(pool PoolInterface) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, name_en, description, description_en, image_url, points_required, stock, active, created_at, updated_at`

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.NameEN, &p.Description, &p.DescriptionEN, &p.ImageURL,
		&p.PointsRequired, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
}

// Insert inserts a new product. The ID is generated by the service layer.
func (r *ProductRepository) Insert(ctx context.Context, p *model.Product) error {
	query := `INSERT INTO products (id, name, name_en, description, description_en, image_url, points_required, stock, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.NameEN, p.Description, p.DescriptionEN, p.ImageURL,
		p.PointsRequired, p.Stock, p.Active,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by ID.
// Returns nil, nil if the product is not found (service layer handles this).
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p model.Product
	if err := scanProduct(r.pool.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &p, nil
}

// GetForUpdate retrieves a product with a row lock (SELECT FOR UPDATE).
// This serializes stock mutations for the product until the transaction
// completes.
// Returns service.ErrProductNotFound if the product doesn't exist.
func (r *ProductRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

	var p model.Product
	if err := scanProduct(tx.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product for update %s: %w", id, err)
	}
	return &p, nil
}

// ListActive retrieves visible products ordered by ascending price.
func (r *ProductRepository) ListActive(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE active = TRUE ORDER BY points_required ASC`
	return r.list(ctx, query)
}

// ListAll retrieves every product, newest first, for the admin catalog view.
func (r *ProductRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *ProductRepository) list(ctx context.Context, query string) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

// DecrementStock decrements a finite product's stock by 1.
// Must be called within a transaction after locking the row; the service
// layer skips the call entirely for unlimited-stock products.
func (r *ProductRepository) DecrementStock(ctx context.Context, tx database.TxQuerier, id string) error {
	query := `UPDATE products SET stock = stock - 1, updated_at = now() WHERE id = $1`

	if _, err := tx.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("decrement stock for %s: %w", id, err)
	}
	return nil
}

// IncrementStock returns one unit of a finite product's stock, used when a
// pending redemption is cancelled.
func (r *ProductRepository) IncrementStock(ctx context.Context, tx database.TxQuerier, id string) error {
	query := `UPDATE products SET stock = stock + 1, updated_at = now() WHERE id = $1`

	if _, err := tx.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("increment stock for %s: %w", id, err)
	}
	return nil
}

// Update persists edited product fields.
// Returns service.ErrProductNotFound if the product doesn't exist.
func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	query := `UPDATE products
		SET name = $2, name_en = $3, description = $4, description_en = $5,
		    image_url = $6, points_required = $7, stock = $8, active = $9,
		    updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.NameEN, p.Description, p.DescriptionEN, p.ImageURL,
		p.PointsRequired, p.Stock, p.Active,
	)
	if err != nil {
		return fmt.Errorf("update product %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrProductNotFound
	}
	return nil
}

// Delete removes a product from the catalog.
// Returns service.ErrProductNotFound if the product doesn't exist and
// service.ErrProductInUse if redemption rows still reference it.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return service.ErrProductInUse
		}
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrProductNotFound
	}
	return nil
}
