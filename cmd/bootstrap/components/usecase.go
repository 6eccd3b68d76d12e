package components

import (
	"ordersvc/internal/infra/catalogclient"
	"ordersvc/internal/pkg/clock"
	"ordersvc/internal/pkg/config"
	"ordersvc/internal/usecase/commands"
	"ordersvc/internal/usecase/queries"

	"go.uber.org/fx"
)

var CatalogUseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		queries.NewProductQueries,
		commands.NewProductCommands,
		commands.NewInventoryCommands,
	),
)

var OrdersUseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		queries.NewOrderQueries,
		fx.Annotate(
			NewCatalogGateway,
			fx.As(new(commands.CatalogGateway)),
		),
		commands.NewOrderCommands,
	),
)

func NewCatalogGateway(cfg config.Config) *catalogclient.Client {
	return catalogclient.New(cfg.Catalog)
}
