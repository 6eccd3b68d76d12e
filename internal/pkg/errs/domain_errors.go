package errs

import "errors"

// Domain-specific sentinel errors shared by the usecase layers
var (
	// Product errors
	ErrProductNotFound      = errors.New("product not found")
	ErrDuplicateProductName = errors.New("product name already exists")

	// Inventory errors
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrReservationNotFound = errors.New("reservation not found")

	// Catalog boundary errors
	ErrCatalogUnavailable = errors.New("catalog service unavailable")

	// Order errors
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrOrderPersistence  = errors.New("order persistence failed")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
