package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"vibe-commerce/internal/db"
	"vibe-commerce/internal/domain"
)

type postgresRepo struct {
	pool db.Pool
}

func NewPostgres(pool db.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const itemColumns = `
SELECT cl.id::text, cl.session_id, cl.product_id::text, cl.quantity, cl.created_at, cl.updated_at,
       p.name, p.price::text, p.image_url
FROM cart_lines cl
JOIN products p ON p.id = cl.product_id
`

func (r *postgresRepo) AddQuantity(ctx context.Context, sessionID, productID string, qty int) (*domain.CartLine, error) {
	if !db.ValidUUID(productID) {
		return nil, domain.ErrInvalidID
	}
	if qty > domain.MaxQuantity {
		return nil, domain.ErrQuantityOutOfRange
	}
	const q = `
INSERT INTO cart_lines (session_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (session_id, product_id) DO UPDATE
SET quantity = cart_lines.quantity + EXCLUDED.quantity,
    updated_at = now()
RETURNING id::text, session_id, product_id::text, quantity, created_at, updated_at
`
	var line domain.CartLine
	err := r.pool.QueryRow(ctx, q, sessionID, productID, qty).Scan(
		&line.ID,
		&line.SessionID,
		&line.ProductID,
		&line.Quantity,
		&line.CreatedAt,
		&line.UpdatedAt,
	)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, domain.ErrProductNotFound
		}
		if db.IsNumericOutOfRange(err) {
			return nil, domain.ErrQuantityOutOfRange
		}
		return nil, fmt.Errorf("upsert cart line: %w", err)
	}
	return &line, nil
}

func (r *postgresRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	rows, err := r.pool.Query(ctx, itemColumns+`WHERE cl.session_id = $1
ORDER BY cl.created_at ASC, cl.id ASC
`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	return items, nil
}

func (r *postgresRepo) GetItem(ctx context.Context, id string) (*domain.CartItem, error) {
	if !db.ValidUUID(id) {
		return nil, domain.ErrInvalidID
	}
	item, err := scanItem(r.pool.QueryRow(ctx, itemColumns+`WHERE cl.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("get cart line: %w", err)
	}
	return &item, nil
}

func (r *postgresRepo) SetQuantity(ctx context.Context, id string, qty int) error {
	if !db.ValidUUID(id) {
		return domain.ErrInvalidID
	}
	if qty > domain.MaxQuantity {
		return domain.ErrQuantityOutOfRange
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1, updated_at = now()
WHERE id = $2
`, qty, id)
	if err != nil {
		if db.IsNumericOutOfRange(err) {
			return domain.ErrQuantityOutOfRange
		}
		return fmt.Errorf("update cart line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	if !db.ValidUUID(id) {
		return domain.ErrInvalidID
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	return nil
}

func (r *postgresRepo) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func scanItem(row pgx.Row) (domain.CartItem, error) {
	var (
		item  domain.CartItem
		price string
	)
	if err := row.Scan(
		&item.ID,
		&item.SessionID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.Name,
		&price,
		&item.ImageURL,
	); err != nil {
		return domain.CartItem{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("cart line %s: parse price %q: %w", item.ID, price, err)
	}
	item.Price = d
	return item, nil
}
