package booking

import (
	"go.uber.org/fx"

	"github.com/stayledger/stayledger/internal/booking/lock"
	"github.com/stayledger/stayledger/internal/booking/repository"
	"github.com/stayledger/stayledger/internal/booking/service"
)

var Module = fx.Module("booking.service",
	fx.Provide(lock.NewRedisClient),
	fx.Provide(lock.NewLocker),
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewEngine),
)
