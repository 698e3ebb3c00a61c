package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"schoolfee-backend/internal/config"
	"schoolfee-backend/internal/jobs"
	"schoolfee-backend/internal/logger"
	"schoolfee-backend/internal/repository/postgres"
	"schoolfee-backend/internal/scheduler"
	"schoolfee-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run", "", "Run a single job and exit: overdue | reminders | generate | nightly | monthly")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting fee cron runner...", "log_level", cfg.Log.Level)

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

	store := postgres.NewStore(db)

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
	emailSvc := service.NewEmailService(cfg.Email, cfg.School)

	jobRunner := jobs.NewJobRunner(db, store, &jobs.Services{
		Billing: billingSvc,
		Email:   emailSvc,
	}, cfg)

	if *runOnce != "" {
		switch *runOnce {
		case "overdue":
			jobRunner.MarkOverdueBills()
		case "reminders":
			jobRunner.SendFeeReminders()
		case "generate":
			jobRunner.GenerateMonthlyBills()
		case "nightly":
			jobRunner.RunAllNightlyJobs()
		case "monthly":
			jobRunner.RunAllMonthlyJobs()
		default:
			log.Fatalf("Unknown job %q", *runOnce)
		}
		return
	}

	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	sched.Stop()
	logger.Info("Cron runner stopped")
}
