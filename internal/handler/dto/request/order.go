package request

import (
	"ordersvc/internal/usecase/commands"

	"github.com/google/uuid"
)

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int32     `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	UserID uuid.UUID          `json:"user_id" binding:"required"`
	Items  []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r CreateOrderRequest) ToLines() []commands.OrderLine {
	lines := make([]commands.OrderLine, len(r.Items))
	for i, item := range r.Items {
		lines[i] = commands.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}
	return lines
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
