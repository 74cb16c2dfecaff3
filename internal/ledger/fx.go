package ledger

import (
	"github.com/stayledger/stayledger/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(service.NewPoster),
	fx.Provide(service.NewService),
)
