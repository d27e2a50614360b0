package handler

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ykrishnateja01/job-portal/internal/api/auth"
	"github.com/ykrishnateja01/job-portal/internal/api/storage"
	"github.com/ykrishnateja01/job-portal/internal/payment"
	"github.com/ykrishnateja01/job-portal/shared/rabbitmq"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger              *slog.Logger
	Users               *storage.UserStorage
	Jobs                *storage.JobStorage
	Payments            *storage.PaymentStorage
	Applications        *storage.ApplicationStorage
	Verifier            *payment.Verifier
	Tokens              *auth.TokenIssuer
	Redis               *redis.Client
	RabbitClient        *rabbitmq.Client
	VerifyTimeout       time.Duration
	VerificationCodeTTL time.Duration
}
