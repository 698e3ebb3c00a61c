package jobs

import (
	"context"
	"time"

	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/logger"
	"schoolfee-backend/internal/service"
)

// MarkOverdueBills flips open unpaid bills past their due date to OVERDUE.
func (jr *JobRunner) MarkOverdueBills() {
	jr.runWithRecovery("MarkOverdueBills", func() {
		ctx := context.Background()

		count, err := jr.services.Billing.MarkOverdueBills(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to mark overdue bills", "error", err)
			return
		}
		logger.Info("Marked overdue bills", "count", count)
	})
}

// SendFeeReminders emails guardians of students whose bills are past due by
// more than the configured grace period.
func (jr *JobRunner) SendFeeReminders() {
	jr.runWithRecovery("SendFeeReminders", func() {
		ctx := context.Background()

		overdue, err := jr.store.BillRepository.ListOverdue(ctx, time.Now(), jr.config.Billing.ReminderGraceDays)
		if err != nil {
			logger.Error("Failed to list overdue bills", "error", err)
			return
		}
		if len(overdue) == 0 {
			logger.Info("No overdue bills, no reminders to send")
			return
		}

		byStudent := make(map[string][]domain.DemandBill)
		for i := range overdue {
			byStudent[overdue[i].StudentID] = append(byStudent[overdue[i].StudentID], overdue[i])
		}

		sent := 0
		failed := 0
		for studentID, bills := range byStudent {
			student, err := jr.store.StudentRepository.GetByID(ctx, studentID)
			if err != nil {
				logger.Error("Failed to load student for reminder", "student_id", studentID, "error", err)
				failed++
				continue
			}
			if student.GuardianEmail == "" {
				continue
			}
			if err := jr.services.Email.SendFeeReminder(ctx, student, bills); err != nil {
				logger.Error("Failed to send fee reminder", "student_id", studentID, "error", err)
				failed++
				continue
			}
			sent++
		}
		logger.Info("Fee reminders sent", "sent", sent, "failed", failed)
	})
}

// GenerateMonthlyBills generates the current month's bills for every active
// student. Duplicate-skip semantics make a rerun harmless, so the job is
// safe to fire even after a manual generation.
func (jr *JobRunner) GenerateMonthlyBills() {
	jr.runWithRecovery("GenerateMonthlyBills", func() {
		if !jr.config.Billing.AutoGenerateMonthly {
			logger.Info("Automatic monthly generation disabled, skipping")
			return
		}
		ctx := context.Background()

		session, err := jr.store.SessionRepository.GetActive(ctx)
		if err != nil {
			logger.Error("Failed to resolve active session", "error", err)
			return
		}

		now := time.Now()
		result, err := jr.services.Billing.GenerateDemandBills(ctx, service.GenerateBillsRequest{
			SessionID: session.ID,
			Month:     int(now.Month()),
			Year:      now.Year(),
		})
		if err != nil {
			logger.Error("Monthly bill generation failed", "error", err)
			return
		}
		logger.Info("Monthly bill generation completed",
			"session", session.Name,
			"generated", result.Generated,
			"skipped", result.Skipped,
			"failed", result.Failed)
	})
}
