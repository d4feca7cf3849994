package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/RayL2590/paymybuddy/internal/adapter/handler"
	"github.com/RayL2590/paymybuddy/internal/adapter/middleware"
	"github.com/RayL2590/paymybuddy/internal/adapter/storage"
	"github.com/RayL2590/paymybuddy/internal/core/config"
	"github.com/RayL2590/paymybuddy/internal/core/service"
	"github.com/RayL2590/paymybuddy/internal/core/worker"
)

func main() {
	// 1. Load Config
	cfg := config.LoadConfig()

	// 2. Setup Logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 3. Connect to Database
	dbPool, err := storage.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	if err := storage.Migrate(context.Background(), dbPool); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	// 4. Setup Repos, Services & Handlers
	accountRepo := storage.NewAccountRepository(dbPool, cfg.BalanceCeiling)
	connectionRepo := storage.NewConnectionRepository(dbPool)
	ledgerRepo := storage.NewLedgerRepository(dbPool, cfg.BalanceCeiling, cfg.WebhookURL)

	accounts := service.NewAccounts(accountRepo, cfg.BalanceCeiling)
	connections := service.NewConnections(accountRepo, connectionRepo)
	transfers := service.NewTransfers(accountRepo, connectionRepo, ledgerRepo)
	ledger := service.NewLedger(ledgerRepo)

	accountHandler := &handler.AccountHandler{Accounts: accounts}
	connectionHandler := &handler.ConnectionHandler{Connections: connections}
	transferHandler := &handler.TransferHandler{Transfers: transfers, Ledger: ledger}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	// 6. Routes
	api := app.Group("/v1")

	api.Post("/accounts", accountHandler.Create)
	api.Get("/accounts/:id", accountHandler.Get)
	api.Post("/accounts/:id/balance", accountHandler.Adjust)
	api.Get("/accounts/:id/connections", connectionHandler.List)
	api.Get("/accounts/:id/transactions", transferHandler.History)

	api.Post("/connections", middleware.Idempotency(dbPool), connectionHandler.Create)
	api.Post("/transfers", middleware.Idempotency(dbPool), transferHandler.Create)
	api.Patch("/transactions/:id", transferHandler.Update)
	api.Delete("/transactions/:id", transferHandler.Delete)

	// 7. Start Worker
	if cfg.WebhookURL != "" {
		worker.StartReceiptWorker(dbPool, cfg.WebhookSecret)
	}

	// Graceful shutdown: finish in-flight requests, then close the pool.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("🚀 Server starting", "env", cfg.Env, "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Server forced to shutdown", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	dbPool.Close()
	slog.Info("Database connection closed, bye 👋")
}
