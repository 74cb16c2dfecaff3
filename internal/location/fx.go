package location

import (
	"github.com/stayledger/stayledger/internal/location/repository"
	"github.com/stayledger/stayledger/internal/location/service"
	"go.uber.org/fx"
)

var Module = fx.Module("location.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
