package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/matt-dz/foodgram/internal/api"
	"github.com/matt-dz/foodgram/internal/config"
	"github.com/matt-dz/foodgram/internal/env"
	"github.com/matt-dz/foodgram/internal/log"
	"github.com/matt-dz/foodgram/internal/setup"
)

const usage = `usage: foodgram [command]

commands:
  serve                          run the API server (default)
  import-ingredients <file.csv>  load name,measurement_unit rows into the database`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is fine; the environment or config file is used.
	_ = godotenv.Load()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("foodgram failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}

	conf, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := log.New(&slog.HandlerOptions{Level: log.Level(conf.Env)})
	slog.SetDefault(logger)

	const setupTime = 30 * time.Second
	setupCtx, cancel := context.WithTimeout(ctx, setupTime)
	defer cancel()

	db, err := setup.Database(setupCtx, conf.Database)
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}
	defer db.Pool.Close()

	env := env.New(&conf)
	env.Logger = logger
	env.Database = db

	switch command {
	case "serve":
		return serve(ctx, setupCtx, env)
	case "import-ingredients":
		if len(args) != 2 {
			return errors.New(usage)
		}
		return importIngredients(ctx, env, args[1])
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func serve(ctx, setupCtx context.Context, env *env.Env) error {
	fs, err := setup.FileStore(setupCtx, env.Config)
	if err != nil {
		return fmt.Errorf("setting up file store: %w", err)
	}
	env.FileStore = fs

	env.Logger.DebugContext(ctx, "setting up admin")
	if err := setup.Admin(setupCtx, env); err != nil {
		return fmt.Errorf("setting up admin: %w", err)
	}

	if err := api.Start(ctx, env); err != nil {
		return fmt.Errorf("running api: %w", err)
	}
	return nil
}

func importIngredients(ctx context.Context, env *env.Env, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := setup.ImportIngredients(ctx, env, f); err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}
	return nil
}
