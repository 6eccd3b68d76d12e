package readstore

import (
	"context"
	"errors"

	"ordersvc/internal/infra"
	"ordersvc/internal/infra/db"
	"ordersvc/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(dbtx db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: dbtx}
}

func (s *OrderReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, status, total, created_at, updated_at
		FROM orders
		WHERE id = $1`,
		id,
	)

	var view queries.OrderView
	err := row.Scan(&view.ID, &view.UserID, &view.Status, &view.Total, &view.CreatedAt, &view.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get order", err)
	}

	items, err := s.itemsByOrderIDs(ctx, []uuid.UUID{view.ID})
	if err != nil {
		return nil, err
	}
	view.Items = items[view.ID]

	return &view, nil
}

func (s *OrderReadStore) List(ctx context.Context) ([]*queries.OrderView, error) {
	return s.list(ctx, `
		SELECT id, user_id, status, total, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC`)
}

func (s *OrderReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*queries.OrderView, error) {
	return s.list(ctx, `
		SELECT id, user_id, status, total, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID)
}

func (s *OrderReadStore) list(ctx context.Context, sql string, args ...any) ([]*queries.OrderView, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	var views []*queries.OrderView
	var ids []uuid.UUID
	for rows.Next() {
		var view queries.OrderView
		if err := rows.Scan(&view.ID, &view.UserID, &view.Status, &view.Total, &view.CreatedAt, &view.UpdatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order row", err)
		}
		views = append(views, &view)
		ids = append(ids, view.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order rows", err)
	}

	if len(views) == 0 {
		return views, nil
	}

	items, err := s.itemsByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, view := range views {
		view.Items = items[view.ID]
	}

	return views, nil
}

func (s *OrderReadStore) itemsByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]queries.OrderItemView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT order_id, id, product_id, product_name, unit_price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id`,
		orderIDs,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list order items", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]queries.OrderItemView, len(orderIDs))
	for rows.Next() {
		var (
			orderID uuid.UUID
			item    queries.OrderItemView
		)
		if err := rows.Scan(&orderID, &item.ID, &item.ProductID, &item.ProductName, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item row", err)
		}
		items[orderID] = append(items[orderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order item rows", err)
	}

	return items, nil
}
