package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ykrishnateja01/job-portal/internal/api/auth"
	"github.com/ykrishnateja01/job-portal/internal/api/handler"
	"github.com/ykrishnateja01/job-portal/internal/api/router"
	"github.com/ykrishnateja01/job-portal/internal/api/storage"
	"github.com/ykrishnateja01/job-portal/internal/chain"
	"github.com/ykrishnateja01/job-portal/internal/config"
	"github.com/ykrishnateja01/job-portal/internal/metrics"
	"github.com/ykrishnateja01/job-portal/internal/payment"
	"github.com/ykrishnateja01/job-portal/shared/logger"
	"github.com/ykrishnateja01/job-portal/shared/postgresql"
	"github.com/ykrishnateja01/job-portal/shared/rabbitmq"
	"github.com/ykrishnateja01/job-portal/shared/redisdb"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or flags")
	}

	// Parse command-line flags
	defaultConfigPath := os.Getenv("API_SERVICE_CONFIG_PATH")
	if defaultConfigPath == "" {
		defaultConfigPath = "configs/api-service/config.yaml"
	}
	configPath := flag.String("config", defaultConfigPath, "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateAPIConfig(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	appLogger, err := initLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting API service",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	// Initialize PostgreSQL client
	dbClient, err := initPostgreSQL(&cfg.Database, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	appLogger.Info("Database connection established")

	// Initialize Redis client
	redisClient, err := redisdb.NewClient(context.Background(), cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}

	appLogger.Info("Redis connection established")

	// Initialize RabbitMQ client
	rabbitClient, err := initRabbitMQ(&cfg.RabbitMQ, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize RabbitMQ: %w", err)
	}

	appLogger.Info("RabbitMQ connection established")

	// Initialize blockchain oracles and the payment verifier
	oracles, err := initOracles(&cfg.Chains, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize blockchain oracles: %w", err)
	}

	verifier, err := initVerifier(cfg, oracles, appLogger.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize payment verifier: %w", err)
	}

	// Initialize storage and handler dependencies
	deps := &handler.Dependencies{
		Logger:              appLogger.Logger,
		Users:               storage.NewUserStorage(dbClient),
		Jobs:                storage.NewJobStorage(dbClient),
		Payments:            storage.NewPaymentStorage(dbClient),
		Applications:        storage.NewApplicationStorage(dbClient),
		Verifier:            verifier,
		Tokens:              auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Redis:               redisClient,
		RabbitClient:        rabbitClient,
		VerifyTimeout:       cfg.Payments.VerifyTimeout,
		VerificationCodeTTL: cfg.Auth.VerificationCodeTTL,
	}

	// Initialize router
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	r := router.SetupRouter(deps)

	// Create HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	appLogger.Info("Starting HTTP server",
		slog.String("address", addr),
		slog.Duration("read_timeout", cfg.Server.ReadTimeout),
		slog.Duration("write_timeout", cfg.Server.WriteTimeout),
	)

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed to start",
				slog.Any("error", err),
			)
			os.Exit(1)
		}
	}()

	appLogger.Info("API service is running",
		slog.String("address", addr),
	)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)

	// Cleanup function to close all resources
	cleanup := func() {
		cancel()
		for _, oracle := range oracles {
			oracle.Close()
		}
		if dbClient != nil {
			dbClient.Close()
		}
		if redisClient != nil {
			redisClient.Close()
		}
		if rabbitClient != nil {
			rabbitClient.Close()
		}
	}
	defer cleanup()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown",
			slog.Any("error", err),
		)
		return err
	}

	appLogger.Info("Server shutdown complete")
	return nil
}

// initLogger initializes and configures the application logger
func initLogger(cfg *config.LoggingConfig) (*logger.Logger, error) {
	loggerCfg := &logger.Config{
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableSource: cfg.EnableCaller,
		TimeFormat:   time.RFC3339,
	}

	return logger.New(loggerCfg)
}

// initPostgreSQL initializes the PostgreSQL database client
func initPostgreSQL(cfg *config.DatabaseConfig, logger *slog.Logger) (*postgresql.Client, error) {
	dbConfig := &postgresql.Config{
		Host:            cfg.Host,
		Port:            cfg.Port,
		User:            cfg.User,
		Password:        cfg.Password,
		Database:        cfg.Database,
		SSLMode:         cfg.SSLMode,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}

	return postgresql.NewClient(dbConfig, logger)
}

// initRabbitMQ initializes the RabbitMQ client
func initRabbitMQ(cfg *config.RabbitMQConfig, logger *slog.Logger) (*rabbitmq.Client, error) {
	rabbitConfig := &rabbitmq.Config{
		Host:               cfg.Host,
		Port:               cfg.Port,
		User:               cfg.User,
		Password:           cfg.Password,
		VHost:              cfg.VHost,
		ExchangeName:       cfg.Exchange.Name,
		ExchangeType:       cfg.Exchange.Type,
		ExchangeDurable:    cfg.Exchange.Durable,
		ExchangeAutoDelete: cfg.Exchange.AutoDelete,
		QueueName:          cfg.Queue.Name,
		QueueDurable:       cfg.Queue.Durable,
		QueueAutoDelete:    cfg.Queue.AutoDelete,
		QueueExclusive:     cfg.Queue.Exclusive,
		RoutingKey:         cfg.RoutingKey,
		RetryAttempts:      cfg.Connection.RetryAttempts,
		RetryInterval:      cfg.Connection.RetryInterval,
		Heartbeat:          cfg.Connection.Heartbeat,
		ConnectionTimeout:  cfg.Connection.ConnectionTimeout,
		PublishRetries:     cfg.Publish.RetryAttempts,
		PublishRetryDelay:  cfg.Publish.RetryInterval,
		PublishBackoffMult: cfg.Publish.BackoffMultiplier,
	}

	return rabbitmq.NewClient(rabbitConfig, logger)
}

// initOracles builds one oracle per configured chain RPC endpoint.
func initOracles(cfg *config.ChainsConfig, logger *slog.Logger) (map[chain.Chain]chain.Oracle, error) {
	oracles := make(map[chain.Chain]chain.Oracle)

	if cfg.EthereumRPCURL != "" {
		oracle, err := chain.NewEVMOracle(chain.ChainEthereum, cfg.EthereumRPCURL, cfg.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("ethereum oracle: %w", err)
		}
		oracles[chain.ChainEthereum] = oracle
		logger.Info("Ethereum oracle configured")
	}

	if cfg.PolygonRPCURL != "" {
		oracle, err := chain.NewEVMOracle(chain.ChainPolygon, cfg.PolygonRPCURL, cfg.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("polygon oracle: %w", err)
		}
		oracles[chain.ChainPolygon] = oracle
		logger.Info("Polygon oracle configured")
	}

	if cfg.SolanaRPCURL != "" {
		oracles[chain.ChainSolana] = chain.NewSolanaOracle(cfg.SolanaRPCURL, cfg.RequestTimeout)
		logger.Info("Solana oracle configured")
	}

	return oracles, nil
}

// initVerifier builds the tariff table and payment verifier from config.
func initVerifier(cfg *config.Config, oracles map[chain.Chain]chain.Oracle, logger *slog.Logger) (*payment.Verifier, error) {
	tariffs, err := payment.NewTariffTable(cfg.Payments.Tariffs)
	if err != nil {
		return nil, fmt.Errorf("tariff table: %w", err)
	}

	policy, err := payment.ParseAmountPolicy(cfg.Payments.AmountPolicy)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewPrometheusRecorder()

	return payment.NewVerifier(oracles, tariffs, policy, logger, recorder), nil
}
