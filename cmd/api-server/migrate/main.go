package main

import (
	"context"
	"flag"
	"log"

	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"github.com/chainsafe/dao-governance/pkg/config"
	"github.com/chainsafe/dao-governance/pkg/migrations/daodb"
	"github.com/chainsafe/dao-governance/pkg/pgutil"
	mghelper "github.com/chainsafe/dao-governance/pkg/pgutil/migrations"
)

func main() {
	cfgPath := flag.String("config", "", "Path to configuration file")
	flag.Usage = mghelper.Usage
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("error reading configuration: %s", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatalf("migrations need database.driver %q, got %q", config.DriverPostgres, cfg.Database.Driver)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("error creating logger: %s", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	db, err := pgutil.ConnectDB(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Fatal("error connecting to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("running governance database migrations", zap.String("database", cfg.Database.Database))

	migrator := migrate.NewMigrator(db, daodb.Migrations)
	if err := mghelper.RunMigrations(ctx, migrator, logger, flag.Args()...); err != nil {
		mghelper.Exitf("%s", err)
	}
}
