//go:build unit || e2e

package builder

import (
	"time"

	domproduct "ordersvc/internal/domain/product"
	reqdto "ordersvc/internal/handler/dto/request"
	"ordersvc/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductBuilder struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewProductBuilder() *ProductBuilder {
	now := time.Now()
	return &ProductBuilder{
		ID:          uuid.New(),
		Name:        "Mechanical Keyboard",
		Description: "Tenkeyless, hot-swappable switches",
		Price:       decimal.NewFromFloat(79.90),
		Stock:       25,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (b *ProductBuilder) WithName(name string) *ProductBuilder {
	b.Name = name
	return b
}

func (b *ProductBuilder) WithPrice(price decimal.Decimal) *ProductBuilder {
	b.Price = price
	return b
}

func (b *ProductBuilder) WithStock(stock int32) *ProductBuilder {
	b.Stock = stock
	return b
}

func (b *ProductBuilder) BuildDomain() (*domproduct.Product, error) {
	return domproduct.NewProduct(b.Name, b.Description, b.Price, b.Stock)
}

func (b *ProductBuilder) BuildView() *queries.ProductView {
	return &queries.ProductView{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Price:       b.Price,
		Stock:       b.Stock,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (b *ProductBuilder) BuildCreateRequestDTO() reqdto.CreateProductRequest {
	return reqdto.CreateProductRequest{
		Name:        b.Name,
		Description: b.Description,
		Price:       b.Price,
		Stock:       b.Stock,
	}
}

func (b *ProductBuilder) BuildUpdateRequestDTO() reqdto.UpdateProductRequest {
	return reqdto.UpdateProductRequest{
		Name:        b.Name,
		Description: b.Description,
		Price:       b.Price,
	}
}
