package payment

import (
	"go.uber.org/fx"

	"github.com/stayledger/stayledger/internal/payment/repository"
	"github.com/stayledger/stayledger/internal/payment/service"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
