package property

import (
	"github.com/stayledger/stayledger/internal/property/repository"
	"github.com/stayledger/stayledger/internal/property/service"
	"go.uber.org/fx"
)

var Module = fx.Module("property.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
