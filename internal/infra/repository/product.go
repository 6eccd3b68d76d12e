package repository

import (
	"context"
	"errors"
	"time"

	"ordersvc/internal/domain/product"
	"ordersvc/internal/infra"
	"ordersvc/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

const pgErrCodeUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrCodeUniqueViolation
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

func (r *ProductRepository) Create(ctx context.Context, dbtx db.DBTX, p *product.Product) (uuid.UUID, error) {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO products (id, name, description, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`,
		p.ID(), p.Name(), p.Description(), p.Price(), p.Stock(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("product name already exists", err, infra.KindDuplicateKey)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create product", err)
	}
	return p.ID(), nil
}

func (r *ProductRepository) Update(ctx context.Context, dbtx db.DBTX, p *product.Product) error {
	tag, err := dbtx.Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, updated_at = now()
		WHERE id = $1`,
		p.ID(), p.Name(), p.Description(), p.Price(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("product name already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to update product", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*product.Product, error) {
	row := dbtx.QueryRow(ctx, `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM products
		WHERE id = $1`,
		id,
	)

	var (
		pid                  uuid.UUID
		name, description    string
		price                decimal.Decimal
		stock                int32
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&pid, &name, &description, &price, &stock, &createdAt, &updatedAt); err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product by ID", err)
	}

	return product.ReconstructProduct(pid, name, description, price, stock, createdAt, updatedAt), nil
}

func (r *ProductRepository) ExistsByName(ctx context.Context, dbtx db.DBTX, name string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := dbtx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM products
			WHERE name = $1 AND ($2::uuid IS NULL OR id <> $2)
		)`,
		name, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check product name", err)
	}
	return exists, nil
}

func (r *ProductRepository) StockForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (int32, error) {
	var stock int32
	err := dbtx.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1 FOR UPDATE`, id).Scan(&stock)
	if err != nil {
		if isNoRows(err) {
			return 0, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to lock product stock", err)
	}
	return stock, nil
}

func (r *ProductRepository) SetStock(ctx context.Context, dbtx db.DBTX, id uuid.UUID, stock int32) error {
	tag, err := dbtx.Exec(ctx, `
		UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`,
		id, stock,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update product stock", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return nil
}
