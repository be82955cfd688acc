package order

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"vibe-commerce/internal/domain"
)

const orderID = "3c2b1a09-8f7e-4d6c-9b5a-4e3d2c1b0a98"

func sampleOrder() domain.Order {
	return domain.Order{
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		Total:         decimal.RequireFromString("39.98"),
		Items: []domain.OrderItem{{
			ProductID: "6f1c2a4e-8d3b-4f5a-9c2e-1b7d3e5f9a01",
			Name:      "Vibe Mug",
			Price:     decimal.RequireFromString("19.99"),
			Quantity:  2,
			Subtotal:  decimal.RequireFromString("39.98"),
		}},
	}
}

func TestPostgresPlaceCommits(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders (customer_name, customer_email, total, items)`)).
		WithArgs("Ana", "ana@example.com", "39.98", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(orderID, now))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_lines WHERE session_id = $1`)).
		WithArgs("s1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	placed, err := NewPostgres(mock, nil).Place(context.Background(), sampleOrder(), "s1")
	require.NoError(t, err)
	require.Equal(t, orderID, placed.ID)
	require.Equal(t, now, placed.CreatedAt)
	require.Len(t, placed.Items, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPlaceRollsBackWhenClearFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders`)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(orderID, time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_lines`)).
		WithArgs("s1").
		WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	_, err = NewPostgres(mock, nil).Place(context.Background(), sampleOrder(), "s1")
	require.ErrorContains(t, err, "clear cart")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPlaceRollsBackWhenInsertFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO orders`)).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err = NewPostgres(mock, nil).Place(context.Background(), sampleOrder(), "s1")
	require.ErrorContains(t, err, "insert order")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	raw := []byte(`[{"product_id":"p1","name":"Vibe Mug","price":"19.99","quantity":2,"subtotal":"39.98"}]`)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders`)).
		WithArgs(orderID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "customer_name", "customer_email", "total", "items", "created_at"}).
			AddRow(orderID, "Ana", "ana@example.com", "39.98", raw, time.Now()))

	o, err := NewPostgres(mock, nil).GetByID(context.Background(), orderID)
	require.NoError(t, err)
	require.True(t, o.Total.Equal(decimal.RequireFromString("39.98")))
	require.Len(t, o.Items, 1)
	require.Equal(t, "Vibe Mug", o.Items[0].Name)
	require.True(t, o.Items[0].Price.Equal(decimal.RequireFromString("19.99")))
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM orders`)).WithArgs(orderID).WillReturnError(pgx.ErrNoRows)

	repo := NewPostgres(mock, nil)
	_, err = repo.GetByID(context.Background(), orderID)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
	_, err = repo.GetByID(context.Background(), "bogus")
	require.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestItemsRoundTripKeepsExactMoney(t *testing.T) {
	raw, err := encodeItems(sampleOrder().Items)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"price":"19.99"`)

	items, err := decodeItems(raw)
	require.NoError(t, err)
	require.True(t, items[0].Subtotal.Equal(decimal.RequireFromString("39.98")))
}
