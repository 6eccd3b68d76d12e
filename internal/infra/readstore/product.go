package readstore

import (
	"context"

	"ordersvc/internal/infra"
	"ordersvc/internal/infra/db"
	"ordersvc/internal/usecase/queries"

	"github.com/google/uuid"
)

type ProductReadStore struct {
	db db.DBTX
}

func NewProductReadStore(dbtx db.DBTX) *ProductReadStore {
	return &ProductReadStore{db: dbtx}
}

func (s *ProductReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.ProductView, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM products
		WHERE id = $1`,
		id,
	)

	var view queries.ProductView
	err := row.Scan(&view.ID, &view.Name, &view.Description, &view.Price, &view.Stock, &view.CreatedAt, &view.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get product", err)
	}

	return &view, nil
}

func (s *ProductReadStore) List(ctx context.Context) ([]*queries.ProductView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM products
		ORDER BY name`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list products", err)
	}
	defer rows.Close()

	var views []*queries.ProductView
	for rows.Next() {
		var view queries.ProductView
		if err := rows.Scan(&view.ID, &view.Name, &view.Description, &view.Price, &view.Stock, &view.CreatedAt, &view.UpdatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan product row", err)
		}
		views = append(views, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate product rows", err)
	}

	return views, nil
}
