package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "schoolfee-backend/internal/api/http"
	"schoolfee-backend/internal/config"
	"schoolfee-backend/internal/logger"
	"schoolfee-backend/internal/repository/postgres"
	"schoolfee-backend/internal/security"
	"schoolfee-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting school fee backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTokenMinutes)*time.Minute,
	)

	// Initialize Services
	feeTypeSvc := service.NewFeeTypeService(store.FeeTypeRepository)
	structureSvc := service.NewFeeStructureService(store.FeeStructureRepository, store.FeeTypeRepository)
	discountSvc := service.NewDiscountService(store.DiscountRepository, store.FeeTypeRepository, store.StudentRepository)
	billingSvc := service.NewBillingService(
		store.BillRepository,
		store.FeeStructureRepository,
		store.DiscountRepository,
		store.FeeTypeRepository,
		store.TransactionRepository,
		store.StudentRepository,
		store.SessionRepository,
		cfg.Billing,
	)
	collectionSvc := service.NewCollectionService(
		store.TransactionRepository,
		store.BillRepository,
		store.FeeTypeRepository,
		store.StudentRepository,
	)
	statementSvc := service.NewStatementService(
		store.BillRepository,
		store.TransactionRepository,
		store.StudentRepository,
		store.SessionRepository,
	)
	authSvc := service.NewAuthService(cfg.Auth, tokenManager)
	renderer := service.NewTextRenderer(cfg.School)

	// Initialize HTTP server
	server := httpapi.NewServer(
		feeTypeSvc,
		structureSvc,
		discountSvc,
		billingSvc,
		collectionSvc,
		statementSvc,
		authSvc,
		renderer,
		tokenManager,
	)

	httpServer := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
