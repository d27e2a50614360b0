package worker

import (
	"context"
	"log/slog"
)

// Receipt summarizes a confirmed payment for the receipt email.
type Receipt struct {
	PaymentID       string
	Chain           string
	TransactionHash string
	Amount          string
	Currency        string
	JobID           *string
}

// Mailer sends transactional email. The production deployment plugs in an
// SMTP or provider-backed implementation.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, email, name, code string) error
	SendPaymentReceipt(ctx context.Context, email, name string, receipt Receipt) error
}

// LogMailer writes mail to the log instead of sending it. Used in development
// and as the default when no mail provider is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendVerificationEmail(ctx context.Context, email, name, code string) error {
	m.logger.Info("Verification email",
		slog.String("to", email),
		slog.String("name", name),
		slog.String("code", code),
	)
	return nil
}

func (m *LogMailer) SendPaymentReceipt(ctx context.Context, email, name string, receipt Receipt) error {
	jobID := ""
	if receipt.JobID != nil {
		jobID = *receipt.JobID
	}
	m.logger.Info("Payment receipt email",
		slog.String("to", email),
		slog.String("name", name),
		slog.String("payment_id", receipt.PaymentID),
		slog.String("chain", receipt.Chain),
		slog.String("transaction_hash", receipt.TransactionHash),
		slog.String("amount", receipt.Amount),
		slog.String("currency", receipt.Currency),
		slog.String("job_id", jobID),
	)
	return nil
}
