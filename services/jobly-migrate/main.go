package main

import (
	"context"
	"flag"

	"github.com/relabs-tech/jobly/core/config"
	"github.com/relabs-tech/jobly/core/csql"
	"github.com/relabs-tech/jobly/core/logger"
)

func main() {
	down := flag.Int("down", 0, "revert the last n migrations instead of migrating up, -1 reverts all")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Default().WithError(err).Fatalln("cannot load configuration")
	}
	logger.InitLogger(cfg.LogLevel)

	db, err := csql.Open(context.Background(), cfg.Postgres, cfg.PostgresPassword, cfg.Schema)
	if err != nil {
		logger.Default().WithError(err).Fatalln("cannot open database")
	}
	defer db.Close()

	switch {
	case *down > 0:
		err = db.MigrateDown(*down)
	case *down < 0:
		err = db.MigrateDown(0)
	default:
		err = db.Migrate()
	}
	if err != nil {
		logger.Default().WithError(err).Fatalln("migration failed")
	}

	version, dirty, err := db.MigrationVersion()
	if err != nil {
		logger.Default().WithError(err).Fatalln("cannot read schema version")
	}
	logger.Default().WithField("dirty", dirty).Infoln("database schema at version", version)
}
