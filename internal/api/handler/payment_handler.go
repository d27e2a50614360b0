package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ykrishnateja01/job-portal/internal/api/domain"
	"github.com/ykrishnateja01/job-portal/internal/api/dto"
	"github.com/ykrishnateja01/job-portal/internal/api/model"
	"github.com/ykrishnateja01/job-portal/internal/chain"
	"github.com/ykrishnateja01/job-portal/internal/events"
	"github.com/ykrishnateja01/job-portal/internal/payment"
	"github.com/ykrishnateja01/job-portal/shared/rabbitmq"
)

// paymentLedger is the slice of payment storage the handler needs.
type paymentLedger interface {
	Exists(ctx context.Context, transactionHash string) (bool, error)
	RecordAndActivate(ctx context.Context, payment *model.Payment) error
	GetByHashForUser(ctx context.Context, transactionHash, userID string) (*model.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]model.Payment, error)
}

type jobReader interface {
	GetJobByID(ctx context.Context, jobID string) (*model.Job, error)
}

// PaymentHandler handles on-chain payment verification requests
type PaymentHandler struct {
	logger        *slog.Logger
	payments      paymentLedger
	jobs          jobReader
	verifier      *payment.Verifier
	rabbitClient  *rabbitmq.Client
	verifyTimeout time.Duration
}

func NewPaymentHandler(deps *Dependencies) *PaymentHandler {
	timeout := deps.VerifyTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PaymentHandler{
		logger:        deps.Logger,
		payments:      deps.Payments,
		jobs:          deps.Jobs,
		verifier:      deps.Verifier,
		rabbitClient:  deps.RabbitClient,
		verifyTimeout: timeout,
	}
}

// VerifyPayment handles POST /api/v1/payments/verify
// Verifies a claimed on-chain transaction against the tariff table, records it
// in the ledger, and activates the paid-for job. Once verification starts it
// runs on a context detached from the request, so a client disconnect cannot
// leave a confirmed payment unrecorded.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	chainName, err := chain.Parse(req.Blockchain)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported blockchain"})
		return
	}

	purpose, err := payment.ParsePurpose(req.Purpose)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment purpose"})
		return
	}

	var jobID *string
	if req.JobID != "" {
		if _, err := uuid.Parse(req.JobID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "job_id must be a valid UUID"})
			return
		}
		job, err := h.jobs.GetJobByID(c.Request.Context(), req.JobID)
		if err != nil {
			if errors.Is(err, domain.ErrJobNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
				return
			}
			h.logger.Error("Failed to load job", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment"})
			return
		}
		if job.EmployerID != user.UserID {
			c.JSON(http.StatusForbidden, gin.H{"error": "not the job owner"})
			return
		}
		jobID = &req.JobID
	}

	// Fast-path replay check. The unique constraint on the ledger insert is
	// the authoritative guard; this just avoids a pointless oracle round trip.
	exists, err := h.payments.Exists(c.Request.Context(), req.TransactionHash)
	if err != nil {
		h.logger.Error("Failed to check payment ledger", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment"})
		return
	}
	if exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction already processed"})
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), h.verifyTimeout)
	defer cancel()

	verified, err := h.verifier.Verify(ctx, payment.Claim{
		TransactionHash: req.TransactionHash,
		Chain:           chainName,
		Purpose:         purpose,
	})
	if err != nil {
		switch {
		case payment.IsRejection(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, chain.ErrUnavailable):
			h.logger.Error("Blockchain oracle unavailable",
				slog.String("chain", string(chainName)),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "blockchain oracle unavailable, try again later"})
		default:
			h.logger.Error("Payment verification failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment"})
		}
		return
	}

	record := model.Payment{
		PaymentID:       uuid.New().String(),
		UserID:          user.UserID,
		JobID:           jobID,
		Amount:          verified.Amount,
		Currency:        verified.Currency,
		Chain:           string(chainName),
		TransactionHash: req.TransactionHash,
		WalletAddress:   verified.Sender,
		Status:          domain.PaymentStatusConfirmed,
		Purpose:         string(purpose),
		BlockNumber:     int64(verified.BlockNumber),
		GasUsed:         int64(verified.GasUsed),
		GasFee:          verified.GasFee,
		CreatedAt:       time.Now(),
	}

	if err := h.payments.RecordAndActivate(ctx, &record); err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentAlreadyProcessed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "transaction already processed"})
		case errors.Is(err, domain.ErrJobNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		default:
			h.logger.Error("Failed to record payment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		}
		return
	}

	h.logger.Info("Payment recorded",
		slog.String("payment_id", record.PaymentID),
		slog.String("chain", record.Chain),
		slog.String("transaction_hash", record.TransactionHash),
	)

	h.publishConfirmed(ctx, &record)

	c.JSON(http.StatusOK, dto.VerifyPaymentResponse{
		Payment: toPaymentDTO(&record),
		Message: "payment verified",
	})
}

// publishConfirmed is best effort: the ledger row is already committed, and
// the reconciliation sweep covers any consumer that missed the event.
func (h *PaymentHandler) publishConfirmed(ctx context.Context, record *model.Payment) {
	if h.rabbitClient == nil {
		return
	}

	body, err := events.Marshal(events.TypePaymentConfirmed, events.PaymentConfirmed{
		PaymentID:       record.PaymentID,
		UserID:          record.UserID,
		JobID:           record.JobID,
		Chain:           record.Chain,
		TransactionHash: record.TransactionHash,
		Amount:          record.Amount.String(),
		Currency:        record.Currency,
	})
	if err != nil {
		h.logger.Error("Failed to marshal payment event", slog.String("error", err.Error()))
		return
	}

	key := events.RoutingKey(events.TypePaymentConfirmed)
	if err := h.rabbitClient.PublishWithRetry(ctx, key, body, "application/json"); err != nil {
		h.logger.Error("Failed to publish payment event",
			slog.String("payment_id", record.PaymentID),
			slog.String("error", err.Error()),
		)
	}
}

// GetPaymentStatus handles GET /api/v1/payments/status/:hash
func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	hash := c.Param("hash")
	if hash == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction hash is required"})
		return
	}

	record, err := h.payments.GetByHashForUser(c.Request.Context(), hash, user.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
			return
		}
		h.logger.Error("Failed to get payment", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get payment"})
		return
	}

	c.JSON(http.StatusOK, toPaymentDTO(record))
}

// ListPayments handles GET /api/v1/payments/history
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	records, err := h.payments.ListByUser(c.Request.Context(), user.UserID)
	if err != nil {
		h.logger.Error("Failed to list payments", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payments"})
		return
	}

	resp := dto.ListPaymentsResponse{Payments: make([]dto.PaymentDTO, len(records))}
	for i := range records {
		resp.Payments[i] = toPaymentDTO(&records[i])
	}

	c.JSON(http.StatusOK, resp)
}

func toPaymentDTO(p *model.Payment) dto.PaymentDTO {
	return dto.PaymentDTO{
		PaymentID:       p.PaymentID,
		JobID:           p.JobID,
		Amount:          p.Amount.String(),
		Currency:        p.Currency,
		Chain:           p.Chain,
		TransactionHash: p.TransactionHash,
		WalletAddress:   p.WalletAddress,
		Status:          p.Status,
		Purpose:         p.Purpose,
		BlockNumber:     p.BlockNumber,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
}
