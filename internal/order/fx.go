package order

import (
	"github.com/northmart/shopd/internal/order/repository"
	"github.com/northmart/shopd/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(repository.ProvideSalesChecker),
	fx.Provide(service.New),
)
