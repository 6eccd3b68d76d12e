package commands

import (
	"context"

	"ordersvc/internal/domain/product"
	"ordersvc/internal/infra"
	"ordersvc/internal/pkg/errs"
	"ordersvc/internal/usecase/queries"
	"ordersvc/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int32
}

type UpdateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
}

type ProductCommands interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*queries.ProductView, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*queries.ProductView, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productUseCaseImpl struct {
	uow            shared.UnitOfWork
	productQueries queries.ProductQueries
}

func NewProductCommands(uow shared.UnitOfWork, productQueries queries.ProductQueries) ProductCommands {
	return &productUseCaseImpl{
		uow:            uow,
		productQueries: productQueries,
	}
}

func (u *productUseCaseImpl) CreateProduct(ctx context.Context, input CreateProductInput) (*queries.ProductView, error) {
	entity, err := product.NewProduct(input.Name, input.Description, input.Price, input.Stock)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	var productID uuid.UUID
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		exists, err := tx.Products().ExistsByName(ctx, tx.DB(), entity.Name(), nil)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if exists {
			return errs.ErrDuplicateProductName
		}

		productID, err = tx.Products().Create(ctx, tx.DB(), entity)
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.ErrDuplicateProductName
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.productQueries.GetProduct(ctx, productID)
}

func (u *productUseCaseImpl) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*queries.ProductView, error) {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := tx.Products().FindByID(ctx, tx.DB(), id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrProductNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		exists, err := tx.Products().ExistsByName(ctx, tx.DB(), input.Name, &id)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if exists {
			return errs.ErrDuplicateProductName
		}

		// Stock is deliberately untouched here: the ledger is its only writer.
		if err := entity.ChangeDetails(input.Name, input.Description, input.Price); err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		if err := tx.Products().Update(ctx, tx.DB(), entity); err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return errs.ErrDuplicateProductName
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.productQueries.GetProduct(ctx, id)
}

func (u *productUseCaseImpl) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Products().Delete(ctx, tx.DB(), id); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrProductNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}
