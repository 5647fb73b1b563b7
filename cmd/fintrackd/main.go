package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/api"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/api/handlers"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/connectivity"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/remote"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/service"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/store"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/pkg/config"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting finance tracker daemon")

	// A store-open failure is not fatal: the nil store answers every
	// operation with ErrUnavailable, so online paths keep serving while
	// caching and offline mutations are unavailable until restart.
	st, err := store.Open(cfg.Store.Path, appLogger)
	if err != nil {
		appLogger.Error("Failed to open local store, continuing in remote-only mode", zap.Error(err))
	}
	defer st.Close()

	// Remote client and connectivity monitor
	tokens := remote.NewTokenStore(cfg.Remote.Token)
	client := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, tokens, appLogger)
	monitor := connectivity.NewMonitor(client.Ping, cfg.Sync.ProbeInterval, appLogger)

	// Services
	cache, err := service.NewAggregateCache()
	if err != nil {
		appLogger.Fatal("Failed to initialize aggregate cache", zap.Error(err))
	}
	txService := service.NewTransactionService(st, client, monitor, cache, appLogger)
	budgetService := service.NewBudgetService(st, client, monitor, cache, appLogger)
	savingsService := service.NewSavingsService(st, client, monitor, appLogger)
	syncService := service.NewSyncService(st, client, tokens, monitor, cache, cfg.Sync.MaxAttempts, appLogger)

	// Background sync triggers: named best-effort tasks plus the guaranteed
	// manual fallback; the in-progress guard collapses overlapping triggers.
	runSync := func(ctx context.Context) { syncService.SyncAll(ctx) }
	monitor.RegisterSyncTask("sync-transactions", runSync)
	monitor.RegisterSyncTask("sync-budgets", runSync)
	monitor.RegisterSyncTask("sync-savings", runSync)
	monitor.SetFallback(runSync)
	monitor.Start()
	defer monitor.Stop()

	// Drain any backlog left over from the previous run
	if monitor.Online() {
		go syncService.SyncAll(context.Background())
	}

	// Initialize handlers
	txHandler := handlers.NewTransactionHandler(txService, appLogger)
	budgetHandler := handlers.NewBudgetHandler(budgetService, appLogger)
	savingsHandler := handlers.NewSavingsHandler(savingsService, appLogger)
	syncHandler := handlers.NewSyncHandler(syncService, st, monitor, appLogger)
	authHandler := handlers.NewAuthHandler(client, appLogger)

	// Setup router
	app := api.SetupRouter(txHandler, budgetHandler, savingsHandler, syncHandler, authHandler, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
