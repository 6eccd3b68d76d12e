package commands

import (
	"context"

	"ordersvc/internal/infra"
	"ordersvc/internal/pkg/errs"
	"ordersvc/internal/pkg/keyedmutex"
	"ordersvc/internal/usecase/shared"

	"github.com/google/uuid"
)

// InventoryCommands is the inventory ledger: the only writer of stock
// counters. Reserve and Release are keyed by a caller-supplied reservation id
// so that network-level retries never double-decrement or double-credit.
type InventoryCommands interface {
	Reserve(ctx context.Context, productID uuid.UUID, quantity int32, reservationID uuid.UUID) error
	Release(ctx context.Context, productID uuid.UUID, quantity int32, reservationID uuid.UUID) error
}

type inventoryUseCaseImpl struct {
	uow shared.UnitOfWork
	// Serializes check-and-decrement per product. Reservations on different
	// products proceed independently.
	locks *keyedmutex.KeyedMutex[uuid.UUID]
}

func NewInventoryCommands(uow shared.UnitOfWork) InventoryCommands {
	return &inventoryUseCaseImpl{
		uow:   uow,
		locks: keyedmutex.New[uuid.UUID](),
	}
}

func (u *inventoryUseCaseImpl) Reserve(ctx context.Context, productID uuid.UUID, quantity int32, reservationID uuid.UUID) error {
	if quantity <= 0 {
		return errs.ErrInvalidQuantity
	}

	u.locks.Lock(productID)
	defer u.locks.Unlock(productID)

	// The refusal outcome travels out-of-band: an erroring closure would roll
	// the transaction back and lose the failed reservation record, and a
	// replayed id could then see a different answer.
	var refused bool
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing, err := tx.Reservations().Find(ctx, tx.DB(), reservationID)
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if existing != nil {
			// Replay of a known reservation id: return the original outcome
			// without touching stock.
			refused = !existing.Succeeded
			return nil
		}

		stock, err := tx.Products().StockForUpdate(ctx, tx.DB(), productID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrProductNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		succeeded := stock >= quantity
		if succeeded {
			if err := tx.Products().SetStock(ctx, tx.DB(), productID, stock-quantity); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		rec := shared.ReservationRecord{
			ID:        reservationID,
			ProductID: productID,
			Quantity:  quantity,
			Succeeded: succeeded,
		}
		if err := tx.Reservations().Record(ctx, tx.DB(), rec); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		refused = !succeeded
		return nil
	})
	if err != nil {
		return err
	}
	if refused {
		return errs.ErrInsufficientStock
	}
	return nil
}

// Release is the compensating inverse of Reserve. It credits stock back at
// most once per committed reservation; unknown or already-released
// reservation ids are acknowledged as no-ops.
func (u *inventoryUseCaseImpl) Release(ctx context.Context, productID uuid.UUID, quantity int32, reservationID uuid.UUID) error {
	u.locks.Lock(productID)
	defer u.locks.Unlock(productID)

	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Reservations().Find(ctx, tx.DB(), reservationID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !rec.Succeeded || rec.ReleasedAt != nil {
			return nil
		}

		released, err := tx.Reservations().MarkReleased(ctx, tx.DB(), reservationID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !released {
			return nil
		}

		// Credit the recorded quantity, not the request's: the record is what
		// was actually decremented.
		stock, err := tx.Products().StockForUpdate(ctx, tx.DB(), rec.ProductID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Products().SetStock(ctx, tx.DB(), rec.ProductID, stock+rec.Quantity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		return nil
	})
}
