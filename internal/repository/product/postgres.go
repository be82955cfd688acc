package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"vibe-commerce/internal/db"
	"vibe-commerce/internal/domain"
)

type postgresRepo struct {
	pool   db.Pool
	logger *log.Logger
}

func NewPostgres(pool db.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id::text, name, price::text, description, image_url, stock, created_at
FROM products
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if !db.ValidUUID(id) {
		return nil, domain.ErrInvalidID
	}
	const q = `
SELECT id::text, name, price::text, description, image_url, stock, created_at
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrProductNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Create(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (name, price, description, image_url, stock)
VALUES ($1, $2::numeric, $3, $4, $5)
RETURNING id::text, created_at
`
	res := product
	err := r.pool.QueryRow(ctx, q,
		product.Name,
		product.Price.String(),
		product.Description,
		product.ImageURL,
		product.Stock,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			r.logger.Printf("product repo: create name=%q conflict", product.Name)
			return nil, domain.ErrProductExists
		}
		r.logger.Printf("product repo: create name=%q error=%v", product.Name, err)
		return nil, err
	}
	r.logger.Printf("product repo: created name=%q id=%s", res.Name, res.ID)
	return &res, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &price, &p.Description, &p.ImageURL, &p.Stock, &p.CreatedAt); err != nil {
		return domain.Product{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s: parse price %q: %w", p.ID, price, err)
	}
	p.Price = d
	return p, nil
}
