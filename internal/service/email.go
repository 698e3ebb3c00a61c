package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"schoolfee-backend/internal/config"
	"schoolfee-backend/internal/domain"
	"schoolfee-backend/internal/logger"
	"schoolfee-backend/internal/utils"
)

type sendgridEmailService struct {
	cfg    config.EmailConfig
	school config.SchoolConfig
}

func NewEmailService(cfg config.EmailConfig, school config.SchoolConfig) EmailService {
	return &sendgridEmailService{cfg: cfg, school: school}
}

// SendFeeReminder mails the guardian a summary of the student's overdue
// bills. With sending disabled the call succeeds without doing anything, so
// the reminder job behaves the same in every environment.
func (s *sendgridEmailService) SendFeeReminder(ctx context.Context, student *domain.Student, bills []domain.DemandBill) error {
	if !s.cfg.Enabled {
		logger.Debug("email sending disabled, skipping reminder", "studentID", student.StudentID)
		return nil
	}
	if student.GuardianEmail == "" {
		return domain.InvalidInputf("student %s has no guardian email", student.StudentID)
	}
	if len(bills) == 0 {
		return nil
	}

	logger.ExternalServiceCall("sendgrid", "SendFeeReminder", "studentID", student.StudentID)

	var body strings.Builder
	var total int64
	fmt.Fprintf(&body, "Dear Parent/Guardian,\n\n")
	fmt.Fprintf(&body, "The following fee bills for %s (class %s) are pending:\n\n", student.Name, student.ClassName)
	for i := range bills {
		b := &bills[i]
		balance := b.Balance()
		total += balance
		fmt.Fprintf(&body, "  %s  %02d/%d  due %s  balance Rs. %s\n",
			b.BillNo, b.Month, b.Year, b.DueDate.Format("02 Jan 2006"), utils.FormatPaise(balance))
	}
	fmt.Fprintf(&body, "\nTotal due: Rs. %s\n\n", utils.FormatPaise(total))
	fmt.Fprintf(&body, "Please clear the dues at the earliest.\n\nRegards,\n%s\n", s.school.Name)

	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromEmail)
	recipient := mail.NewEmail(student.FatherName, student.GuardianEmail)
	subject := fmt.Sprintf("Fee reminder for %s - %s", student.Name, s.school.Name)
	message := mail.NewSingleEmail(from, subject, recipient, body.String(), "")

	client := sendgrid.NewSendClient(s.cfg.APIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
