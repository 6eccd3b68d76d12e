package repository

import (
	"context"
	"time"

	"ordersvc/internal/domain/order"
	"ordersvc/internal/infra"
	"ordersvc/internal/infra/db"

	"github.com/google/uuid"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Create inserts the order row and every item row. Callers run it inside a
// transaction so the order and its items land atomically or not at all.
func (r *OrderRepository) Create(ctx context.Context, dbtx db.DBTX, o *order.Order) (uuid.UUID, error) {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO orders (id, user_id, status, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID(), o.UserID(), string(o.Status()), o.Total(), o.CreatedAt(), o.UpdatedAt(),
	)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create order", err)
	}

	for _, item := range o.Items() {
		_, err := dbtx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID(), o.ID(), item.ProductID(), item.ProductName(), item.UnitPrice(), item.Quantity(),
		)
		if err != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to create order item", err)
		}
	}

	return o.ID(), nil
}

func (r *OrderRepository) StatusForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (order.Status, error) {
	var status string
	err := dbtx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if isNoRows(err) {
			return "", infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return "", infra.WrapRepoErr("failed to lock order", err)
	}
	return order.Status(status), nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status order.Status, updatedAt time.Time) error {
	tag, err := dbtx.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), updatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}
