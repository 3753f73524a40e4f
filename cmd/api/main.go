package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/lbrossard/indivis/internal/auth"
	"github.com/lbrossard/indivis/internal/config"
	"github.com/lbrossard/indivis/internal/database"
	"github.com/lbrossard/indivis/internal/estate"
	estateStore "github.com/lbrossard/indivis/internal/estate/store"
	"github.com/lbrossard/indivis/internal/fraction"
	fractionStore "github.com/lbrossard/indivis/internal/fraction/store"
	indivisHttp "github.com/lbrossard/indivis/internal/http"
	authHandler "github.com/lbrossard/indivis/internal/http/auth"
	estateHandler "github.com/lbrossard/indivis/internal/http/estate"
	fractionHandler "github.com/lbrossard/indivis/internal/http/fraction"
	importHandler "github.com/lbrossard/indivis/internal/http/importcsv"
	operationHandler "github.com/lbrossard/indivis/internal/http/operation"
	transferHandler "github.com/lbrossard/indivis/internal/http/transfer"
	"github.com/lbrossard/indivis/internal/importer"
	"github.com/lbrossard/indivis/internal/importer/releve"
	"github.com/lbrossard/indivis/internal/ledger"
	ledgerStore "github.com/lbrossard/indivis/internal/ledger/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var (
		estateService   = estate.NewService(estateStore.New(db))
		fractionService = fraction.NewService(fractionStore.New(db))
		ledgerService   = ledger.NewService(ledgerStore.New(db))
		importService   = importer.NewService(releve.New(), ledgerService)
		authService     = auth.NewService(estateService, cfg.Auth.Secret, cfg.Auth.TokenTTL)
	)

	if err := estateService.SeedCategories(context.Background()); err != nil {
		slog.Error("failed to seed categories", "error", err)
		os.Exit(1)
	}

	var (
		authH      = authHandler.NewHandler(authService)
		authMW     = authHandler.NewMiddleware(authService)
		operationH = operationHandler.NewHandler(ledgerService)
		fractionH  = fractionHandler.NewHandler(fractionService, ledgerService)
		estateH    = estateHandler.NewHandler(estateService)
		transferH  = transferHandler.NewHandler(ledgerService)
		importH    = importHandler.NewHandler(importService)
	)

	router := indivisHttp.New(authH, authMW, operationH, fractionH, estateH, transferH, importH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
