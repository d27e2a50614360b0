package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ykrishnateja01/job-portal/internal/events"
	"github.com/ykrishnateja01/job-portal/internal/worker/domain"
)

// processEvent routes a decoded event to its handler.
func (w *Worker) processEvent(ctx context.Context, msg *domain.EventMessage) error {
	w.logger.Info("Processing event",
		slog.String("event_type", msg.Envelope.Type),
		slog.String("worker_id", w.workerID),
	)

	switch msg.Envelope.Type {
	case events.TypeUserRegistered:
		return w.handleUserRegistered(ctx, msg.Envelope.Payload)
	case events.TypePaymentConfirmed:
		return w.handlePaymentConfirmed(ctx, msg.Envelope.Payload)
	default:
		return fmt.Errorf("%w: %s", domain.ErrUnknownEventType, msg.Envelope.Type)
	}
}

func (w *Worker) handleUserRegistered(ctx context.Context, payload json.RawMessage) error {
	var ev events.UserRegistered
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	if ev.Email == "" || ev.Code == "" {
		return fmt.Errorf("%w: missing email or code", domain.ErrInvalidPayload)
	}

	if err := w.mailer.SendVerificationEmail(ctx, ev.Email, ev.Name, ev.Code); err != nil {
		// Mail delivery is transient; let the broker redeliver.
		return domain.NewRetryableError(fmt.Errorf("failed to send verification email: %w", err))
	}

	return nil
}

func (w *Worker) handlePaymentConfirmed(ctx context.Context, payload json.RawMessage) error {
	var ev events.PaymentConfirmed
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	if ev.UserID == "" || ev.TransactionHash == "" {
		return fmt.Errorf("%w: missing user_id or transaction_hash", domain.ErrInvalidPayload)
	}

	email, name, err := w.storage.GetUserEmail(ctx, ev.UserID)
	if err != nil {
		return domain.NewRetryableError(fmt.Errorf("failed to look up user: %w", err))
	}
	if email == "" {
		// User deleted since paying; nothing to send.
		w.logger.Warn("Payment receipt skipped - user no longer exists",
			slog.String("user_id", ev.UserID),
			slog.String("payment_id", ev.PaymentID),
		)
		return nil
	}

	receipt := Receipt{
		PaymentID:       ev.PaymentID,
		Chain:           ev.Chain,
		TransactionHash: ev.TransactionHash,
		Amount:          ev.Amount,
		Currency:        ev.Currency,
		JobID:           ev.JobID,
	}

	if err := w.mailer.SendPaymentReceipt(ctx, email, name, receipt); err != nil {
		return domain.NewRetryableError(fmt.Errorf("failed to send payment receipt: %w", err))
	}

	return nil
}
