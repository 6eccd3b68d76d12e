package shared

import (
	"context"
	"time"

	"ordersvc/internal/domain/order"
	"ordersvc/internal/domain/product"
	"ordersvc/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry on serialization failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
}

type Tx interface {
	Products() ProductRepository
	Orders() OrderRepository
	Reservations() ReservationRepository
	DB() db.DBTX
}

type ProductRepository interface {
	Create(ctx context.Context, db db.DBTX, p *product.Product) (uuid.UUID, error)
	Update(ctx context.Context, db db.DBTX, p *product.Product) error
	Delete(ctx context.Context, db db.DBTX, id uuid.UUID) error
	FindByID(ctx context.Context, db db.DBTX, id uuid.UUID) (*product.Product, error)
	ExistsByName(ctx context.Context, db db.DBTX, name string, excludeID *uuid.UUID) (bool, error)
	// StockForUpdate takes the product's row lock for the rest of the transaction.
	StockForUpdate(ctx context.Context, db db.DBTX, id uuid.UUID) (int32, error)
	SetStock(ctx context.Context, db db.DBTX, id uuid.UUID, stock int32) error
}

type OrderRepository interface {
	// Create persists the order row and all of its item rows; the caller's
	// transaction makes the write atomic.
	Create(ctx context.Context, db db.DBTX, o *order.Order) (uuid.UUID, error)
	StatusForUpdate(ctx context.Context, db db.DBTX, id uuid.UUID) (order.Status, error)
	UpdateStatus(ctx context.Context, db db.DBTX, id uuid.UUID, status order.Status, updatedAt time.Time) error
}

// ReservationRecord is the ledger's durable memory of one reservation attempt,
// keyed by the caller-supplied reservation id. It is what makes retried
// reserve calls and repeated release calls safe.
type ReservationRecord struct {
	ID         uuid.UUID
	ProductID  uuid.UUID
	Quantity   int32
	Succeeded  bool
	ReleasedAt *time.Time
}

type ReservationRepository interface {
	Find(ctx context.Context, db db.DBTX, reservationID uuid.UUID) (*ReservationRecord, error)
	Record(ctx context.Context, db db.DBTX, rec ReservationRecord) error
	// MarkReleased flips released_at exactly once; it reports false when the
	// reservation was already released (or never committed).
	MarkReleased(ctx context.Context, db db.DBTX, reservationID uuid.UUID) (bool, error)
}
