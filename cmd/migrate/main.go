// Command migrate runs schema operations against the configured database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"askly/internal/config"
	"askly/internal/database"
	"askly/pkg/db"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|down|status|auto>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	gormDB, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	defer sqlDB.Close()

	// goose runs on a dedicated pgx handle for postgres.
	if cfg.StoreDriver == config.StoreDriverPostgres {
		pgDB, err := db.OpenPostgres(ctx, cfg.DSN(), 5*time.Second)
		if err != nil {
			return err
		}
		defer pgDB.Close()
		sqlDB = pgDB
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.MigrateUp(ctx, sqlDB, cfg.StoreDriver); err != nil {
			return err
		}
		log.Println("sql migrations applied")
	case "down":
		if err := database.MigrateDown(ctx, sqlDB, cfg.StoreDriver); err != nil {
			return err
		}
		log.Println("rolled back latest migration")
	case "status":
		if err := database.MigrationStatus(ctx, sqlDB, cfg.StoreDriver); err != nil {
			return err
		}
		version, err := database.SchemaVersion(ctx, sqlDB, cfg.StoreDriver)
		if err != nil {
			return err
		}
		log.Printf("driver=%s version=%d", cfg.StoreDriver, version)
	case "auto":
		if err := database.AutoMigrate(gormDB); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		log.Println("automigrations applied")
	default:
		return usage()
	}
	return nil
}
