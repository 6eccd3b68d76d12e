package bootstrap

import (
	"ordersvc/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// CatalogModule wires the catalog service: product CRUD plus the stock
// reservation ledger.
var CatalogModule = fx.Options(
	ConfigModule,
	DBModule,
	components.CatalogRepositoryModule,
	components.CatalogUseCaseModule,
	components.CatalogHandlerModule,
)

// OrdersModule wires the order service, which talks to the catalog service
// over HTTP for product snapshots and stock reservation.
var OrdersModule = fx.Options(
	ConfigModule,
	DBModule,
	components.OrdersRepositoryModule,
	components.OrdersUseCaseModule,
	components.OrdersHandlerModule,
)
