package expense

import (
	"go.uber.org/fx"

	"github.com/stayledger/stayledger/internal/expense/repository"
	"github.com/stayledger/stayledger/internal/expense/service"
)

var Module = fx.Module("expense.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
