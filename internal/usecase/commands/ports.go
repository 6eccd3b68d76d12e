package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSnapshot is the catalog data captured into an order at creation
// time. Orders keep these values even if the product is later repriced,
// renamed or deleted.
type ProductSnapshot struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
}

// CatalogGateway is the resilient boundary in front of the catalog service.
//
// Implementations return errs.ErrProductNotFound and errs.ErrInsufficientStock
// for genuine business outcomes, and errs.ErrCatalogUnavailable when the
// remote side cannot be reached (open circuit, exhausted retries, timeouts).
// The two are never conflated.
//
// Every Reserve attempt carries a caller-generated reservation id, which the
// catalog side deduplicates; retrying a reserve call is therefore safe.
type CatalogGateway interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductSnapshot, error)
	Reserve(ctx context.Context, productID uuid.UUID, quantity int32, reservationID uuid.UUID) error
	Release(ctx context.Context, productID uuid.UUID, quantity int32, reservationID uuid.UUID) error
}
