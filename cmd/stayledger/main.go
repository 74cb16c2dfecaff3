package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/stayledger/stayledger/internal/clock"
	"github.com/stayledger/stayledger/internal/config"
	"github.com/stayledger/stayledger/internal/logger"
	"github.com/stayledger/stayledger/internal/metrics"
	"github.com/stayledger/stayledger/internal/migration"
	"github.com/stayledger/stayledger/internal/server"
	"github.com/stayledger/stayledger/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		metrics.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// HTTP surface plus every functional domain it serves
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
