package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidQuantity   = errors.New("item quantity must be positive")
	ErrNegativeUnitPrice = errors.New("item unit price cannot be negative")
	ErrEmptyProductName  = errors.New("item product name cannot be empty")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Line carries the catalog snapshot for one requested item. Name and unit
// price are copied into the order so later catalog changes never alter what
// the customer was charged.
type Line struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int32
}

type Item struct {
	id          uuid.UUID
	productID   uuid.UUID
	productName string
	unitPrice   decimal.Decimal
	quantity    int32
}

type Order struct {
	id        uuid.UUID
	userID    uuid.UUID
	status    Status
	total     decimal.Decimal
	items     []Item
	createdAt time.Time
	updatedAt time.Time
}

func NewOrder(userID uuid.UUID, lines []Line, now time.Time) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	items := make([]Item, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if line.UnitPrice.IsNegative() {
			return nil, ErrNegativeUnitPrice
		}
		if line.ProductName == "" {
			return nil, ErrEmptyProductName
		}

		items = append(items, Item{
			id:          uuid.New(),
			productID:   line.ProductID,
			productName: line.ProductName,
			unitPrice:   line.UnitPrice,
			quantity:    line.Quantity,
		})
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt32(line.Quantity)))
	}

	return &Order{
		id:        uuid.New(),
		userID:    userID,
		status:    StatusPending,
		total:     total,
		items:     items,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructOrder(
	id, userID uuid.UUID,
	status Status,
	total decimal.Decimal,
	items []Item,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:        id,
		userID:    userID,
		status:    status,
		total:     total,
		items:     items,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func ReconstructItem(
	id, productID uuid.UUID,
	productName string,
	unitPrice decimal.Decimal,
	quantity int32,
) Item {
	return Item{
		id:          id,
		productID:   productID,
		productName: productName,
		unitPrice:   unitPrice,
		quantity:    quantity,
	}
}

// Transition enforces the status state machine. Any move not present in the
// table, including self-loops and moves out of terminal states, is rejected.
func (o *Order) Transition(next Status, now time.Time) error {
	if !o.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	o.status = next
	o.updatedAt = now
	return nil
}

func (o *Order) ID() uuid.UUID          { return o.id }
func (o *Order) UserID() uuid.UUID      { return o.userID }
func (o *Order) Status() Status         { return o.status }
func (o *Order) Total() decimal.Decimal { return o.total }
func (o *Order) Items() []Item          { return o.items }
func (o *Order) CreatedAt() time.Time   { return o.createdAt }
func (o *Order) UpdatedAt() time.Time   { return o.updatedAt }

func (i Item) ID() uuid.UUID              { return i.id }
func (i Item) ProductID() uuid.UUID       { return i.productID }
func (i Item) ProductName() string        { return i.productName }
func (i Item) UnitPrice() decimal.Decimal { return i.unitPrice }
func (i Item) Quantity() int32            { return i.quantity }

func (i Item) Subtotal() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt32(i.quantity))
}
