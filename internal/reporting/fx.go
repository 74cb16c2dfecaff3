package reporting

import (
	"go.uber.org/fx"

	"github.com/stayledger/stayledger/internal/reporting/repository"
	"github.com/stayledger/stayledger/internal/reporting/service"
)

var Module = fx.Module("reporting.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
