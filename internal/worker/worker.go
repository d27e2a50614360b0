package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/ykrishnateja01/job-portal/internal/worker/domain"
	workerstorage "github.com/ykrishnateja01/job-portal/internal/worker/storage"
	"github.com/ykrishnateja01/job-portal/shared/postgresql"
	"github.com/ykrishnateja01/job-portal/shared/rabbitmq"
)

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	DBClient      *postgresql.Client
	RabbitClient  *rabbitmq.Client
	Mailer        Mailer
	Concurrency   int
	PrefetchCount int
	QueueName     string
}

// Worker consumes domain events from RabbitMQ and fans them out to a pool of
// goroutines.
type Worker struct {
	logger        *slog.Logger
	storage       *workerstorage.Storage
	rabbitClient  *rabbitmq.Client
	mailer        Mailer
	concurrency   int
	prefetchCount int
	queueName     string
	workerID      string
	eventsChan    chan *domain.EventMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "worker"
	}

	mailer := cfg.Mailer
	if mailer == nil {
		mailer = NewLogMailer(cfg.Logger)
	}

	return &Worker{
		logger:        cfg.Logger,
		storage:       workerstorage.NewStorage(cfg.DBClient.GetDB(), cfg.Logger),
		rabbitClient:  cfg.RabbitClient,
		mailer:        mailer,
		concurrency:   cfg.Concurrency,
		prefetchCount: cfg.PrefetchCount,
		queueName:     cfg.QueueName,
		workerID:      fmt.Sprintf("%s-%s", hostname, uuid.New().String()[:8]),
		eventsChan:    make(chan *domain.EventMessage),
		stopChan:      make(chan struct{}),
	}
}

// Start begins consuming events and blocks until ctx is canceled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Int("prefetch_count", w.prefetchCount),
	)

	deliveries, err := w.setupConsumer(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	w.logger.Info("Worker context canceled, stopping...")
	return nil
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
