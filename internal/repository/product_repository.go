package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/usecase-portal/internal/domain"
)

// ProductRepository provides tier-1 product search and the atomic stock
// decrement used by purchases.
type ProductRepository interface {
	SearchByTerm(ctx context.Context, term string) ([]domain.ProductRecord, error)
	GetByID(ctx context.Context, id int64) (*domain.ProductRecord, error)
	DecrementStock(ctx context.Context, id int64) (bool, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a Postgres-backed implementation.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) SearchByTerm(ctx context.Context, term string) ([]domain.ProductRecord, error) {
	const query = `
        SELECT id, name, category, price, in_stock
        FROM products_agentic
        WHERE name ILIKE '%' || $1 || '%' OR category ILIKE '%' || $1 || '%'
        ORDER BY id`

	rows, err := r.pool.Query(ctx, query, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.ProductRecord
	for rows.Next() {
		var p domain.ProductRecord
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.InStock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*domain.ProductRecord, error) {
	const query = `
        SELECT id, name, category, price, in_stock
        FROM products_agentic WHERE id=$1`

	var p domain.ProductRecord
	if err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.InStock); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecrementStock performs a single conditional update so concurrent
// purchases of the last unit cannot both succeed. It reports false when the
// stock was already exhausted.
func (r *productRepository) DecrementStock(ctx context.Context, id int64) (bool, error) {
	const query = `
        UPDATE products_agentic SET in_stock = in_stock - 1
        WHERE id=$1 AND in_stock > 0`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
