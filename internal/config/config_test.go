package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykrishnateja01/job-portal/internal/payment"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				// Verify some key fields are populated
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "jobportal_db", cfg.Database.Database)
				assert.Equal(t, "events_exchange", cfg.RabbitMQ.Exchange.Name)
				assert.Equal(t, "events_queue", cfg.RabbitMQ.Queue.Name)
				assert.Equal(t, "events.#", cfg.RabbitMQ.RoutingKey)
				assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
				assert.Equal(t, "exact", cfg.Payments.AmountPolicy)
				assert.Len(t, cfg.Payments.Tariffs, 2)
				assert.Equal(t, "job-portal-api", cfg.App.Name)
			}
		})
	}
}

// validAPIConfig returns a config that passes ValidateAPIConfig; tests mutate
// single fields from here.
func validAPIConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "jobportal_db",
		},
		RabbitMQ: RabbitMQConfig{
			Host: "localhost",
			Port: 5672,
			Exchange: ExchangeConfig{
				Name: "events_exchange",
			},
			Queue: QueueConfig{
				Name: "events_queue",
			},
		},
		Redis: RedisConfig{URL: "redis://localhost:6379/0"},
		Auth:  AuthConfig{JWTSecret: "secret"},
		Chains: ChainsConfig{
			EthereumRPCURL: "https://eth.example.com",
		},
		Payments: PaymentsConfig{
			AmountPolicy: "exact",
			Tariffs: []payment.TariffSpec{
				{
					Chain:     "ethereum",
					Purpose:   "job_posting",
					Recipient: "0x1111111111111111111111111111111111111111",
					Amount:    "10000000000000000",
					Currency:  "ETH",
				},
			},
		},
	}
}

func TestConfig_ValidateAPIConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:      "invalid server port - too low",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "invalid server port - too high",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "empty database host",
			mutate:    func(c *Config) { c.Database.Host = "" },
			wantErr:   true,
			errString: "database host is required",
		},
		{
			name:      "empty database name",
			mutate:    func(c *Config) { c.Database.Database = "" },
			wantErr:   true,
			errString: "database name is required",
		},
		{
			name:      "empty rabbitmq host",
			mutate:    func(c *Config) { c.RabbitMQ.Host = "" },
			wantErr:   true,
			errString: "rabbitmq host is required",
		},
		{
			name:      "empty exchange name",
			mutate:    func(c *Config) { c.RabbitMQ.Exchange.Name = "" },
			wantErr:   true,
			errString: "rabbitmq exchange name is required",
		},
		{
			name:      "empty queue name",
			mutate:    func(c *Config) { c.RabbitMQ.Queue.Name = "" },
			wantErr:   true,
			errString: "rabbitmq queue name is required",
		},
		{
			name:      "empty redis url",
			mutate:    func(c *Config) { c.Redis.URL = "" },
			wantErr:   true,
			errString: "redis url is required",
		},
		{
			name:      "empty jwt secret",
			mutate:    func(c *Config) { c.Auth.JWTSecret = "" },
			wantErr:   true,
			errString: "auth jwt_secret is required",
		},
		{
			name:      "no chain rpc urls",
			mutate:    func(c *Config) { c.Chains = ChainsConfig{} },
			wantErr:   true,
			errString: "at least one chain rpc url is required",
		},
		{
			name:      "no tariffs",
			mutate:    func(c *Config) { c.Payments.Tariffs = nil },
			wantErr:   true,
			errString: "at least one payment tariff is required",
		},
		{
			name:      "bad amount policy",
			mutate:    func(c *Config) { c.Payments.AmountPolicy = "roughly" },
			wantErr:   true,
			errString: "invalid payments amount_policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAPIConfig()
			tt.mutate(cfg)

			err := cfg.ValidateAPIConfig()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateWorkerConfig(t *testing.T) {
	validWorker := func() *Config {
		cfg := validAPIConfig()
		cfg.Worker = WorkerConfig{
			Concurrency:       5,
			PrefetchCount:     10,
			ReconcileSchedule: "@every 5m",
			ShutdownTimeout:   30 * time.Second,
		}
		return cfg
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:      "zero concurrency",
			mutate:    func(c *Config) { c.Worker.Concurrency = 0 },
			wantErr:   true,
			errString: "worker concurrency must be greater than 0",
		},
		{
			name:      "empty reconcile schedule",
			mutate:    func(c *Config) { c.Worker.ReconcileSchedule = "" },
			wantErr:   true,
			errString: "worker reconcile_schedule is required",
		},
		{
			name:      "zero shutdown timeout",
			mutate:    func(c *Config) { c.Worker.ShutdownTimeout = 0 },
			wantErr:   true,
			errString: "worker shutdown_timeout must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validWorker()
			tt.mutate(cfg)

			err := cfg.ValidateWorkerConfig()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoad_ValidateIntegration(t *testing.T) {
	t.Run("load and validate valid config", func(t *testing.T) {
		cfg, err := Load("testdata/valid_config.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		require.NoError(t, cfg.ValidateAPIConfig())
		require.NoError(t, cfg.ValidateWorkerConfig())
	})

	t.Run("load config with invalid port", func(t *testing.T) {
		cfg, err := Load("testdata/invalid_port.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		err = cfg.ValidateAPIConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server port")
	})

	t.Run("load config with missing database", func(t *testing.T) {
		cfg, err := Load("testdata/missing_database.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		err = cfg.ValidateAPIConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database name is required")
	})
}
