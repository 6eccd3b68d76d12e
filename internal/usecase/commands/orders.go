package commands

import (
	"context"
	"log/slog"

	"ordersvc/internal/domain/order"
	"ordersvc/internal/infra"
	"ordersvc/internal/pkg/clock"
	"ordersvc/internal/pkg/errs"
	"ordersvc/internal/usecase/queries"
	"ordersvc/internal/usecase/shared"

	"github.com/google/uuid"
)

type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int32
}

type OrderCommands interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, lines []OrderLine) (*queries.OrderView, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus order.Status) (*queries.OrderView, error)
}

// reservationOutcome tracks one committed reservation within a single
// order-creation attempt, so a later failure can unwind exactly the subset
// that succeeded.
type reservationOutcome struct {
	reservationID uuid.UUID
	productID     uuid.UUID
	quantity      int32
}

type orderUseCaseImpl struct {
	catalog      CatalogGateway
	uow          shared.UnitOfWork
	orderQueries queries.OrderQueries
	clock        clock.Clock
}

func NewOrderCommands(
	catalog CatalogGateway,
	uow shared.UnitOfWork,
	orderQueries queries.OrderQueries,
	clock clock.Clock,
) OrderCommands {
	return &orderUseCaseImpl{
		catalog:      catalog,
		uow:          uow,
		orderQueries: orderQueries,
		clock:        clock,
	}
}

// CreateOrder walks the requested lines strictly in order: snapshot the
// product from the catalog, then reserve its stock through the resilient
// boundary. The first failure stops processing and releases every
// reservation committed so far; an order is only persisted when every line
// reserved. Reservations never outlive a failed order write.
func (u *orderUseCaseImpl) CreateOrder(ctx context.Context, userID uuid.UUID, lines []OrderLine) (*queries.OrderView, error) {
	if len(lines) == 0 {
		return nil, errs.ErrEmptyOrder
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, errs.ErrInvalidQuantity
		}
	}

	var (
		reserved   []reservationOutcome
		orderLines []order.Line
	)
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			u.compensate(ctx, reserved)
			return nil, errs.Mark(err, errs.ErrCatalogUnavailable)
		}

		snapshot, err := u.catalog.GetProduct(ctx, line.ProductID)
		if err != nil {
			u.compensate(ctx, reserved)
			return nil, err
		}

		reservationID := uuid.New()
		if err := u.catalog.Reserve(ctx, line.ProductID, line.Quantity, reservationID); err != nil {
			u.compensate(ctx, reserved)
			return nil, err
		}

		reserved = append(reserved, reservationOutcome{
			reservationID: reservationID,
			productID:     line.ProductID,
			quantity:      line.Quantity,
		})
		orderLines = append(orderLines, order.Line{
			ProductID:   snapshot.ID,
			ProductName: snapshot.Name,
			UnitPrice:   snapshot.Price,
			Quantity:    line.Quantity,
		})
	}

	entity, err := order.NewOrder(userID, orderLines, u.clock.Now())
	if err != nil {
		u.compensate(ctx, reserved)
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	var orderID uuid.UUID
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		orderID, err = tx.Orders().Create(ctx, tx.DB(), entity)
		return err
	})
	if err != nil {
		u.compensate(ctx, reserved)
		return nil, errs.Mark(err, errs.ErrOrderPersistence)
	}

	return u.orderQueries.GetOrder(ctx, orderID)
}

// compensate releases every committed reservation of a failed attempt. It
// runs detached from the caller's cancellation: an abandoned request must
// still give its stock back. Release failures are logged for out-of-band
// reconciliation and never override the primary error.
func (u *orderUseCaseImpl) compensate(ctx context.Context, reserved []reservationOutcome) {
	if len(reserved) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	for _, outcome := range reserved {
		if err := u.catalog.Release(ctx, outcome.productID, outcome.quantity, outcome.reservationID); err != nil {
			slog.ErrorContext(ctx, "stock release failed, manual reconciliation required",
				"product_id", outcome.productID,
				"quantity", outcome.quantity,
				"reservation_id", outcome.reservationID,
				"error", err,
			)
		}
	}
}

func (u *orderUseCaseImpl) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus order.Status) (*queries.OrderView, error) {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, err := tx.Orders().StatusForUpdate(ctx, tx.DB(), orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrOrderNotFound)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if !current.CanTransitionTo(newStatus) {
			return errs.ErrInvalidTransition
		}

		if err := tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, newStatus, u.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return u.orderQueries.GetOrder(ctx, orderID)
}
