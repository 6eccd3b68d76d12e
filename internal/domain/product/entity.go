package product

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyProductName   = errors.New("product name cannot be empty")
	ErrProductNameTooLong = errors.New("product name is too long (max 255 characters)")
	ErrNegativePrice      = errors.New("price cannot be negative")
	ErrNegativeStock      = errors.New("stock cannot be negative")
)

const (
	MaxProductNameLength = 255
)

type Product struct {
	id          uuid.UUID
	name        string
	description string
	price       decimal.Decimal
	stock       int32
	createdAt   time.Time
	updatedAt   time.Time
}

func NewProduct(name, description string, price decimal.Decimal, stock int32) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}

	return &Product{
		id:          uuid.New(),
		name:        strings.TrimSpace(name),
		description: strings.TrimSpace(description),
		price:       price,
		stock:       stock,
	}, nil
}

func ReconstructProduct(
	id uuid.UUID,
	name, description string,
	price decimal.Decimal,
	stock int32,
	createdAt, updatedAt time.Time,
) *Product {
	return &Product{
		id:          id,
		name:        name,
		description: description,
		price:       price,
		stock:       stock,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ChangeDetails replaces name/description/price. Stock is never touched here:
// the ledger is the only writer of stock counters.
func (p *Product) ChangeDetails(name, description string, price decimal.Decimal) error {
	if err := validateName(name); err != nil {
		return err
	}
	if price.IsNegative() {
		return ErrNegativePrice
	}

	p.name = strings.TrimSpace(name)
	p.description = strings.TrimSpace(description)
	p.price = price
	return nil
}

func (p *Product) HasStock(quantity int32) bool {
	return p.stock >= quantity
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyProductName
	}
	if len(name) > MaxProductNameLength {
		return ErrProductNameTooLong
	}
	return nil
}

func (p *Product) ID() uuid.UUID          { return p.id }
func (p *Product) Name() string           { return p.name }
func (p *Product) Description() string    { return p.description }
func (p *Product) Price() decimal.Decimal { return p.price }
func (p *Product) Stock() int32           { return p.stock }
func (p *Product) CreatedAt() time.Time   { return p.createdAt }
func (p *Product) UpdatedAt() time.Time   { return p.updatedAt }
