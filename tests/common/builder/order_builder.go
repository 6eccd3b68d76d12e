//go:build unit || e2e

package builder

import (
	"time"

	domorder "ordersvc/internal/domain/order"
	reqdto "ordersvc/internal/handler/dto/request"
	"ordersvc/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderLineSpec struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int32
}

type OrderBuilder struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Status    string
	Lines     []OrderLineSpec
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewOrderBuilder() *OrderBuilder {
	now := time.Now()
	return &OrderBuilder{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Status: domorder.StatusPending.String(),
		Lines: []OrderLineSpec{
			{
				ProductID:   uuid.New(),
				ProductName: "Mechanical Keyboard",
				UnitPrice:   decimal.NewFromFloat(79.90),
				Quantity:    1,
			},
			{
				ProductID:   uuid.New(),
				ProductName: "USB-C Cable",
				UnitPrice:   decimal.NewFromFloat(9.50),
				Quantity:    2,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (b *OrderBuilder) WithLines(lines ...OrderLineSpec) *OrderBuilder {
	b.Lines = lines
	return b
}

func (b *OrderBuilder) WithStatus(status string) *OrderBuilder {
	b.Status = status
	return b
}

func (b *OrderBuilder) BuildDomain() (*domorder.Order, error) {
	lines := make([]domorder.Line, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = domorder.Line{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
		}
	}
	return domorder.NewOrder(b.UserID, lines, b.CreatedAt)
}

func (b *OrderBuilder) BuildView() *queries.OrderView {
	items := make([]queries.OrderItemView, len(b.Lines))
	total := decimal.Zero
	for i, l := range b.Lines {
		items[i] = queries.OrderItemView{
			ID:          uuid.New(),
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
		}
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity)))
	}
	return &queries.OrderView{
		ID:        b.ID,
		UserID:    b.UserID,
		Status:    b.Status,
		Total:     total,
		Items:     items,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (b *OrderBuilder) BuildCreateRequestDTO() reqdto.CreateOrderRequest {
	items := make([]reqdto.OrderItemRequest, len(b.Lines))
	for i, l := range b.Lines {
		items[i] = reqdto.OrderItemRequest{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		}
	}
	return reqdto.CreateOrderRequest{
		UserID: b.UserID,
		Items:  items,
	}
}
