package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/northmart/shopd/internal/config"
	"github.com/northmart/shopd/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, genID *snowflake.Node, log *zap.Logger) error {
		if cfg.DBType != "postgres" {
			// golang-migrate is wired for the postgres driver only; sqlite is a
			// dev/test convenience and manages schema out of band.
			log.Named("migrations").Warn("skipping migrations", zap.String("db_type", cfg.DBType))
			return nil
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		if err := RunMigrations(sqlDB); err != nil {
			return err
		}

		return seed.EnsureDefaultManager(conn, genID, cfg.SeedManagerEmail)
	}),
)
