package searchlog

import (
	"go.uber.org/fx"

	"github.com/stayledger/stayledger/internal/searchlog/repository"
	"github.com/stayledger/stayledger/internal/searchlog/service"
)

var Module = fx.Module("searchlog.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
