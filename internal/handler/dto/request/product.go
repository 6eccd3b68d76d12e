package request

import (
	"ordersvc/internal/usecase/commands"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int32           `json:"stock" binding:"gte=0"`
}

func (r CreateProductRequest) ToInput() commands.CreateProductInput {
	return commands.CreateProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
	}
}

type UpdateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

func (r UpdateProductRequest) ToInput() commands.UpdateProductInput {
	return commands.UpdateProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
	}
}
