package pricing

import (
	"github.com/stayledger/stayledger/internal/pricing/repository"
	"github.com/stayledger/stayledger/internal/pricing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricing.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewResolver),
	fx.Provide(service.NewService),
)
