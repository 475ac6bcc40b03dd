package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/platformbuilds/mirador-httptop/internal/config"
	"github.com/platformbuilds/mirador-httptop/internal/fetch"
	"github.com/platformbuilds/mirador-httptop/internal/query"
	"github.com/platformbuilds/mirador-httptop/internal/services"
	"github.com/platformbuilds/mirador-httptop/internal/ui"
	"github.com/platformbuilds/mirador-httptop/pkg/cache"
	"github.com/platformbuilds/mirador-httptop/pkg/logger"
)

const version = "v1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Logs go to a file; stdout belongs to the dashboard
	logger := logger.New(cfg.LogLevel, cfg.LogFile)
	logger.Info("Starting mirador-httptop", "version", version, "api", cfg.API.URL)

	// Restore a shared view link when one is passed on the command line
	store := query.NewStore()
	if len(os.Args) > 1 {
		store = query.NewStoreFrom(query.DecodeURL(os.Args[1]))
		logger.Info("view restored from link", "url", os.Args[1])
	}

	callsService := services.NewCallsService(cfg.API, logger)

	// Fail fast when the backend is unreachable rather than starting an
	// empty dashboard
	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.RequestTimeout())
	err = callsService.HealthCheck(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mirador-core health check failed: %v\n", err)
		os.Exit(1)
	}

	// External Valkey when configured, in-memory fallback otherwise
	var viewCache cache.ViewCache
	if cfg.Cache.Enabled {
		viewCache, err = cache.NewValkeyCache(cfg.Cache.Node, cfg.Cache.Password, cfg.Cache.DB, cfg.Cache.CacheTTL(), logger)
		if err != nil {
			logger.Warn("Valkey connection failed", "node", cfg.Cache.Node, "error", err)
			viewCache = cache.NewNoopCache(logger)
		}
	} else {
		viewCache = cache.NewNoopCache(logger)
	}

	controller := fetch.NewController(callsService, viewCache, cfg.Cache.CacheTTL(), logger)
	model := ui.NewModel(store, controller, cfg.API.URL+"/httptop", cfg.Refresh.Enabled, logger)

	program := tea.NewProgram(model, tea.WithAltScreen())

	scheduler := fetch.NewScheduler(cfg.Refresh.Interval(), logger)
	scheduler.Start(func() {
		program.Send(ui.AutoRefreshMsg{})
	})
	defer scheduler.Stop()

	if _, err := program.Run(); err != nil {
		logger.Error("dashboard exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("mirador-httptop shutdown complete")
}
