package catalog

import (
	"github.com/northmart/shopd/internal/catalog/repository"
	"github.com/northmart/shopd/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
