//go:build unit

package commands_test

import (
	"context"
	"errors"
	"maps"
	"sync"
	"testing"
	"time"

	"ordersvc/internal/domain/order"
	"ordersvc/internal/domain/product"
	"ordersvc/internal/infra"
	"ordersvc/internal/infra/db"
	"ordersvc/internal/pkg/errs"
	"ordersvc/internal/usecase/commands"
	"ordersvc/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory stand-in for the persistence layer. Within serializes callers the
// way row locks would and discards mutations when the closure errors, the way
// a rolled-back transaction would.
type fakeStore struct {
	mu           sync.Mutex
	stock        map[uuid.UUID]int32
	reservations map[uuid.UUID]shared.ReservationRecord
	orders       map[uuid.UUID]order.Status

	reserveRecordErr error
	orderCreateErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stock:        make(map[uuid.UUID]int32),
		reservations: make(map[uuid.UUID]shared.ReservationRecord),
		orders:       make(map[uuid.UUID]order.Status),
	}
}

type fakeUoW struct {
	store *fakeStore
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	stock := maps.Clone(u.store.stock)
	reservations := maps.Clone(u.store.reservations)
	orders := maps.Clone(u.store.orders)

	if err := fn(ctx, &fakeTx{store: u.store}); err != nil {
		u.store.stock = stock
		u.store.reservations = reservations
		u.store.orders = orders
		return err
	}
	return nil
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Products() shared.ProductRepository         { return &fakeProductRepo{store: t.store} }
func (t *fakeTx) Orders() shared.OrderRepository             { return &fakeOrderRepo{store: t.store} }
func (t *fakeTx) Reservations() shared.ReservationRepository { return &fakeReservationRepo{store: t.store} }
func (t *fakeTx) DB() db.DBTX                                { return nil }

type fakeProductRepo struct {
	store *fakeStore
}

func (r *fakeProductRepo) Create(_ context.Context, _ db.DBTX, p *product.Product) (uuid.UUID, error) {
	r.store.stock[p.ID()] = p.Stock()
	return p.ID(), nil
}

func (r *fakeProductRepo) Update(context.Context, db.DBTX, *product.Product) error { return nil }

func (r *fakeProductRepo) Delete(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	delete(r.store.stock, id)
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*product.Product, error) {
	if _, ok := r.store.stock[id]; !ok {
		return nil, infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return nil, nil
}

func (r *fakeProductRepo) ExistsByName(context.Context, db.DBTX, string, *uuid.UUID) (bool, error) {
	return false, nil
}

func (r *fakeProductRepo) StockForUpdate(_ context.Context, _ db.DBTX, id uuid.UUID) (int32, error) {
	stock, ok := r.store.stock[id]
	if !ok {
		return 0, infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return stock, nil
}

func (r *fakeProductRepo) SetStock(_ context.Context, _ db.DBTX, id uuid.UUID, stock int32) error {
	r.store.stock[id] = stock
	return nil
}

type fakeReservationRepo struct {
	store *fakeStore
}

func (r *fakeReservationRepo) Find(_ context.Context, _ db.DBTX, reservationID uuid.UUID) (*shared.ReservationRecord, error) {
	rec, ok := r.store.reservations[reservationID]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	cp := rec
	return &cp, nil
}

func (r *fakeReservationRepo) Record(_ context.Context, _ db.DBTX, rec shared.ReservationRecord) error {
	if r.store.reserveRecordErr != nil {
		return r.store.reserveRecordErr
	}
	r.store.reservations[rec.ID] = rec
	return nil
}

func (r *fakeReservationRepo) MarkReleased(_ context.Context, _ db.DBTX, reservationID uuid.UUID) (bool, error) {
	rec, ok := r.store.reservations[reservationID]
	if !ok || !rec.Succeeded || rec.ReleasedAt != nil {
		return false, nil
	}
	now := time.Now()
	rec.ReleasedAt = &now
	r.store.reservations[reservationID] = rec
	return true, nil
}

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) Create(_ context.Context, _ db.DBTX, o *order.Order) (uuid.UUID, error) {
	if r.store.orderCreateErr != nil {
		return uuid.Nil, r.store.orderCreateErr
	}
	r.store.orders[o.ID()] = o.Status()
	return o.ID(), nil
}

func (r *fakeOrderRepo) StatusForUpdate(_ context.Context, _ db.DBTX, id uuid.UUID) (order.Status, error) {
	status, ok := r.store.orders[id]
	if !ok {
		return "", infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return status, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status order.Status, _ time.Time) error {
	if _, ok := r.store.orders[id]; !ok {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	r.store.orders[id] = status
	return nil
}

func setupInventory(t *testing.T, productID uuid.UUID, stock int32) (commands.InventoryCommands, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.stock[productID] = stock
	return commands.NewInventoryCommands(&fakeUoW{store: store}), store
}

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements stock and records the reservation", func(t *testing.T) {
		productID := uuid.New()
		uc, store := setupInventory(t, productID, 10)

		reservationID := uuid.New()
		require.NoError(t, uc.Reserve(ctx, productID, 3, reservationID))

		assert.Equal(t, int32(7), store.stock[productID])
		rec := store.reservations[reservationID]
		assert.True(t, rec.Succeeded)
		assert.Equal(t, int32(3), rec.Quantity)
	})

	t.Run("exact remaining stock can be reserved", func(t *testing.T) {
		productID := uuid.New()
		uc, store := setupInventory(t, productID, 4)

		require.NoError(t, uc.Reserve(ctx, productID, 4, uuid.New()))
		assert.Equal(t, int32(0), store.stock[productID])
	})

	t.Run("insufficient stock leaves the counter untouched", func(t *testing.T) {
		productID := uuid.New()
		uc, store := setupInventory(t, productID, 2)

		reservationID := uuid.New()
		err := uc.Reserve(ctx, productID, 3, reservationID)
		require.ErrorIs(t, err, errs.ErrInsufficientStock)

		assert.Equal(t, int32(2), store.stock[productID])
		rec := store.reservations[reservationID]
		assert.False(t, rec.Succeeded)
	})

	t.Run("unknown product", func(t *testing.T) {
		uc, _ := setupInventory(t, uuid.New(), 10)

		err := uc.Reserve(ctx, uuid.New(), 1, uuid.New())
		require.ErrorIs(t, err, errs.ErrProductNotFound)
	})

	t.Run("non positive quantity", func(t *testing.T) {
		productID := uuid.New()
		uc, _ := setupInventory(t, productID, 10)

		require.ErrorIs(t, uc.Reserve(ctx, productID, 0, uuid.New()), errs.ErrInvalidQuantity)
		require.ErrorIs(t, uc.Reserve(ctx, productID, -5, uuid.New()), errs.ErrInvalidQuantity)
	})

	t.Run("replaying a successful reservation does not decrement twice", func(t *testing.T) {
		productID := uuid.New()
		uc, store := setupInventory(t, productID, 10)

		reservationID := uuid.New()
		require.NoError(t, uc.Reserve(ctx, productID, 3, reservationID))
		require.NoError(t, uc.Reserve(ctx, productID, 3, reservationID))

		assert.Equal(t, int32(7), store.stock[productID])
	})

	t.Run("replaying a failed reservation repeats the refusal", func(t *testing.T) {
		productID := uuid.New()
		uc, store := setupInventory(t, productID, 2)

		reservationID := uuid.New()
		require.ErrorIs(t, uc.Reserve(ctx, productID, 5, reservationID), errs.ErrInsufficientStock)

		// The refusal is committed, not rolled back with the transaction.
		rec, ok := store.reservations[reservationID]
		require.True(t, ok)
		assert.False(t, rec.Succeeded)

		// Stock has since been replenished, but the recorded outcome wins.
		store.stock[productID] = 100
		require.ErrorIs(t, uc.Reserve(ctx, productID, 5, reservationID), errs.ErrInsufficientStock)
		assert.Equal(t, int32(100), store.stock[productID])
	})

	t.Run("concurrent reservations never oversell", func(t *testing.T) {
		productID := uuid.New()
		uc, store := setupInventory(t, productID, 5)

		const attempts = 20
		results := make(chan error, attempts)

		var wg sync.WaitGroup
		wg.Add(attempts)
		for i := 0; i < attempts; i++ {
			go func() {
				defer wg.Done()
				results <- uc.Reserve(ctx, productID, 1, uuid.New())
			}()
		}
		wg.Wait()
		close(results)

		succeeded := 0
		for err := range results {
			if err == nil {
				succeeded++
			} else {
				require.ErrorIs(t, err, errs.ErrInsufficientStock)
			}
		}

		assert.Equal(t, 5, succeeded)
		assert.Equal(t, int32(0), store.stock[productID])
	})
}

func TestRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("credits the reserved quantity back", func(t *testing.T) {
		productID := uuid.New()
		uc, store := setupInventory(t, productID, 10)

		reservationID := uuid.New()
		require.NoError(t, uc.Reserve(ctx, productID, 4, reservationID))
		require.Equal(t, int32(6), store.stock[productID])

		require.NoError(t, uc.Release(ctx, productID, 4, reservationID))
		assert.Equal(t, int32(10), store.stock[productID])
	})

	t.Run("double release credits only once", func(t *testing.T) {
		productID := uuid.New()
		uc, store := setupInventory(t, productID, 10)

		reservationID := uuid.New()
		require.NoError(t, uc.Reserve(ctx, productID, 4, reservationID))

		require.NoError(t, uc.Release(ctx, productID, 4, reservationID))
		require.NoError(t, uc.Release(ctx, productID, 4, reservationID))

		assert.Equal(t, int32(10), store.stock[productID])
	})

	t.Run("unknown reservation is acknowledged without effect", func(t *testing.T) {
		productID := uuid.New()
		uc, store := setupInventory(t, productID, 10)

		require.NoError(t, uc.Release(ctx, productID, 4, uuid.New()))
		assert.Equal(t, int32(10), store.stock[productID])
	})

	t.Run("failed reservation is never credited", func(t *testing.T) {
		productID := uuid.New()
		uc, store := setupInventory(t, productID, 2)

		reservationID := uuid.New()
		require.ErrorIs(t, uc.Reserve(ctx, productID, 5, reservationID), errs.ErrInsufficientStock)

		require.NoError(t, uc.Release(ctx, productID, 5, reservationID))
		assert.Equal(t, int32(2), store.stock[productID])
	})

	t.Run("credits the recorded quantity even if the request differs", func(t *testing.T) {
		productID := uuid.New()
		uc, store := setupInventory(t, productID, 10)

		reservationID := uuid.New()
		require.NoError(t, uc.Reserve(ctx, productID, 4, reservationID))

		require.NoError(t, uc.Release(ctx, productID, 99, reservationID))
		assert.Equal(t, int32(10), store.stock[productID])
	})
}

func TestReserveStorageFailure(t *testing.T) {
	ctx := context.Background()

	productID := uuid.New()
	store := newFakeStore()
	store.stock[productID] = 10
	store.reserveRecordErr = errors.New("disk on fire")
	uc := commands.NewInventoryCommands(&fakeUoW{store: store})

	err := uc.Reserve(ctx, productID, 3, uuid.New())
	require.ErrorIs(t, err, errs.ErrDatabaseOperationFailed)
	assert.Equal(t, int32(10), store.stock[productID], "rollback must undo the decrement")
}
