package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"schoolfee-backend/internal/jobs"
	"schoolfee-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with local timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.Local),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	// Nightly jobs
	_, err := s.cron.AddFunc(cfg.MarkOverdueBills, s.jobs.MarkOverdueBills)
	if err != nil {
		logger.Error("Failed to register MarkOverdueBills job", "error", err)
	}

	_, err = s.cron.AddFunc(cfg.SendFeeReminders, s.jobs.SendFeeReminders)
	if err != nil {
		logger.Error("Failed to register SendFeeReminders job", "error", err)
	}

	// Monthly jobs
	_, err = s.cron.AddFunc(cfg.GenerateMonthlyBills, s.jobs.GenerateMonthlyBills)
	if err != nil {
		logger.Error("Failed to register GenerateMonthlyBills job", "error", err)
	}

	logger.Info("All cron jobs registered successfully")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has registered jobs
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
