// Command migrate applies or reverts the versioned schema migrations. It
// exists for deployments carrying data in the legacy single-category shape;
// fresh installs get the current schema from the server binary directly.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nmanzi/partsdb/internal/config"
	"github.com/nmanzi/partsdb/internal/migrate"
)

func main() {
	var (
		down  = flag.Bool("down", false, "revert the most recent migration instead of applying pending ones")
		force = flag.Bool("force", false, "confirm a downgrade that discards data")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Log.Format == "json" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.Path)
	default:
		dialector = postgres.Open(cfg.Database.DSN())
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	runner := migrate.NewRunner(db, logger)

	if *down {
		if err := runner.Down(*force); err != nil {
			logger.Error("Downgrade failed", zap.Error(err))
			os.Exit(1)
		}
		fmt.Println("downgrade complete")
		return
	}

	if err := runner.Up(); err != nil {
		logger.Error("Migration failed", zap.Error(err))
		os.Exit(1)
	}
	fmt.Println("migrations up to date")
}
