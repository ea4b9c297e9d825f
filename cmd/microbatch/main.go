package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	v1 "github.com/aevon-lab/microbatch/internal/api/v1"
	corecfg "github.com/aevon-lab/microbatch/internal/core/config"
	"github.com/aevon-lab/microbatch/internal/core/storage"
	"github.com/aevon-lab/microbatch/internal/core/storage/postgres"
	"github.com/aevon-lab/microbatch/internal/migrations"
	"github.com/aevon-lab/microbatch/internal/planning"
	"github.com/aevon-lab/microbatch/internal/server"
)

func main() {
	configPath := flag.String("config", "microbatch.yaml", "Path to configuration file")
	planOnly := flag.Bool("plan", false, "Print the plan for every model as JSON and exit")
	checkpoint := flag.String("checkpoint", "", "Checkpoint for -plan (RFC 3339, defaults to now)")
	flag.Parse()

	// 0. Initialize Logger. Plan output owns stdout in -plan mode.
	var logOut io.Writer = os.Stdout
	if *planOnly {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"models", len(cfg.ModelLoading.Models),
		"model_dir", cfg.ModelLoading.ConfigDir,
		"ledger_enabled", cfg.Database.Enabled,
	)

	// 2. Initialize the plan ledger (optional)
	var (
		store  storage.PlanStore
		health server.HealthChecker
	)
	if cfg.Database.Enabled {
		dbAdapter, err := postgres.NewAdapter(
			cfg.Database.DSN,
			cfg.Database.MaxOpenConns,
			cfg.Database.MaxIdleConns,
		)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		defer dbAdapter.Close()

		if err := migrations.RunMigrations(dbAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		if err := dbAdapter.ValidateSchema(context.Background()); err != nil {
			slog.Error("Plan ledger schema is missing", "error", err)
			os.Exit(1)
		}
		store = dbAdapter
		health = dbAdapter
	} else {
		slog.Info("Plan ledger disabled by config")
	}

	// 3. Initialize Planning
	planner := planning.NewService(cfg.ModelLoading.Models, store, cfg.Planning.WorkerCount)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal handler cancels ctx, which stops planning and the server.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	if *planOnly {
		req := cfg.Planning.PlanRequest()
		req.Checkpoint = *checkpoint
		if err := printPlans(ctx, planner, req, os.Stdout); err != nil {
			slog.Error("Planning failed", "error", err)
			os.Exit(1)
		}
		return
	}

	// 4. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), health, cfg.Server.Mode)
	planner.RegisterRoutes(srv.Engine)

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func printPlans(ctx context.Context, planner *planning.Service, req v1.PlanRequest, w io.Writer) error {
	plans, err := planner.PlanAll(ctx, req)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]interface{}{"plans": plans})
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
