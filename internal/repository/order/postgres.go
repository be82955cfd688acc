package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"vibe-commerce/internal/db"
	"vibe-commerce/internal/domain"
)

// itemRecord is the jsonb shape of an order line. Money is kept as decimal strings.
type itemRecord struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

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

func (r *postgresRepo) Place(ctx context.Context, order domain.Order, sessionID string) (*domain.Order, error) {
	items, err := encodeItems(order.Items)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin checkout tx: %w", err)
	}
	defer tx.Rollback(ctx)

	res := order
	err = tx.QueryRow(ctx, `
INSERT INTO orders (customer_name, customer_email, total, items)
VALUES ($1, $2, $3::numeric, $4)
RETURNING id::text, created_at
`, order.CustomerName, order.CustomerEmail, order.Total.String(), items).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	cmd, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE session_id = $1`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit checkout tx: %w", err)
	}
	r.logger.Printf("order repo: placed id=%s lines=%d cleared=%d", res.ID, len(res.Items), cmd.RowsAffected())
	return &res, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if !db.ValidUUID(id) {
		return nil, domain.ErrInvalidID
	}
	var (
		o     domain.Order
		total string
		raw   []byte
	)
	err := r.pool.QueryRow(ctx, `
SELECT id::text, customer_name, customer_email, total::text, items, created_at
FROM orders
WHERE id = $1
`, id).Scan(&o.ID, &o.CustomerName, &o.CustomerEmail, &total, &raw, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		r.logger.Printf("order repo: get id=%s error=%v", id, err)
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("order %s: parse total %q: %w", id, total, err)
	}
	if o.Items, err = decodeItems(raw); err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}
	return &o, nil
}

func encodeItems(items []domain.OrderItem) ([]byte, error) {
	records := make([]itemRecord, 0, len(items))
	for _, it := range items {
		records = append(records, itemRecord{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
		})
	}
	b, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode order items: %w", err)
	}
	return b, nil
}

func decodeItems(raw []byte) ([]domain.OrderItem, error) {
	var records []itemRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	items := make([]domain.OrderItem, 0, len(records))
	for _, rec := range records {
		items = append(items, domain.OrderItem{
			ProductID: rec.ProductID,
			Name:      rec.Name,
			Price:     rec.Price,
			Quantity:  rec.Quantity,
			Subtotal:  rec.Subtotal,
		})
	}
	return items, nil
}
