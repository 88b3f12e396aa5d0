package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"hktplatform.app/api/common/logger"
	"hktplatform.app/api/core/config"
	"hktplatform.app/api/core/db"
)

func main() {
	var (
		direction = flag.String("direction", "up", "Migration direction: up|down")
		steps     = flag.Int("steps", 1, "Number of migrations to roll back with -direction=down")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: migrate [-direction up|down] [-steps n]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeMigrate)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Setup(cfg)

	switch *direction {
	case "up":
		err = db.Migrate(cfg.DB.DSN)
	case "down":
		err = db.Rollback(cfg.DB.DSN, *steps)
		if err == nil {
			slog.InfoContext(ctx, "migrations rolled back", "steps", *steps)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		slog.ErrorContext(ctx, "migration failed", "direction", *direction, "error", err)
		os.Exit(1)
	}
}
