package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hotelmart/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id::text, user_id::text, user_last_name, payment_method, items_price::float8, tax_price::float8,
       total_price::float8, is_paid, paid_at, payment_result, is_delivered, delivered_at, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (string, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var id string
	err = tx.QueryRow(ctx, `
INSERT INTO orders (user_id, user_last_name, payment_method, items_price, tax_price, total_price)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text
`, o.UserID, o.UserLastName, o.PaymentMethod, o.ItemsPrice, o.TaxPrice, o.TotalPrice).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for pos, it := range o.Items {
		batch.Queue(`
INSERT INTO order_items (order_id, position, item_key, name, price, quantity, image)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`, id, pos, it.Key, it.Name, it.Price, it.Quantity, it.Image)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return "", fmt.Errorf("insert order items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1::uuid`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	items, err := r.items(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// ListByUser returns the user's orders newest first, without items.
func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1::uuid ORDER BY created_at DESC`, userID)
	if err != nil {
		if isInvalidText(err) {
			return []domain.Order{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	result := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		if isInvalidText(err) {
			return []domain.Order{}, nil
		}
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) MarkPaid(ctx context.Context, id string, at time.Time, result domain.PaymentResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET is_paid = true, paid_at = $2, payment_result = $3
WHERE id = $1::uuid
`, id, at, raw)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET is_delivered = true, delivered_at = $2
WHERE id = $1::uuid
`, id, at)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) items(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
SELECT item_key, name, price::float8, quantity, image
FROM order_items
WHERE order_id = $1::uuid
ORDER BY position ASC
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.Key, &it.Name, &it.Price, &it.Quantity, &it.Image); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o         domain.Order
		resultRaw []byte
	)
	if err := row.Scan(&o.ID, &o.UserID, &o.UserLastName, &o.PaymentMethod, &o.ItemsPrice, &o.TaxPrice,
		&o.TotalPrice, &o.IsPaid, &o.PaidAt, &resultRaw, &o.IsDelivered, &o.DeliveredAt, &o.CreatedAt); err != nil {
		return nil, err
	}
	if len(resultRaw) > 0 {
		var pr domain.PaymentResult
		if err := json.Unmarshal(resultRaw, &pr); err != nil {
			return nil, fmt.Errorf("decode payment result for order %s: %w", o.ID, err)
		}
		o.PaymentResult = &pr
	}
	return &o, nil
}

// isInvalidText reports a malformed uuid argument (invalid_text_representation).
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
