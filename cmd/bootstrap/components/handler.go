package components

import (
	"ordersvc/internal/handler"
	"ordersvc/internal/handler/api"

	"go.uber.org/fx"
)

var CatalogHandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewProductHandler,
	),
	fx.Invoke(handler.NewCatalogRouter),
)

var OrdersHandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewOrderHandler,
	),
	fx.Invoke(handler.NewOrdersRouter),
)
