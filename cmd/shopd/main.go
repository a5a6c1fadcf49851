package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/northmart/shopd/internal/clock"
	"github.com/northmart/shopd/internal/config"
	"github.com/northmart/shopd/internal/logger"
	"github.com/northmart/shopd/internal/migration"
	"github.com/northmart/shopd/internal/reminder"
	"github.com/northmart/shopd/internal/server"
	"github.com/northmart/shopd/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		server.Module,
		reminder.Module,
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
