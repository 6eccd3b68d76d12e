package response

import (
	"time"

	"ordersvc/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int32           `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ReserveResponse struct {
	Reserved bool `json:"reserved"`
}

func FromProductView(view *queries.ProductView) *ProductResponse {
	var resp ProductResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromProductViews(views []*queries.ProductView) []*ProductResponse {
	resps := make([]*ProductResponse, len(views))
	for i, view := range views {
		resps[i] = FromProductView(view)
	}
	return resps
}
