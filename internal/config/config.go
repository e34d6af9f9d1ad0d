// Package config loads minter configuration from the environment.
//
// Values are read with github.com/caarlos0/env after an optional .env file
// has been loaded with github.com/joho/godotenv. Each process validates only
// the sections it needs (see ValidateWorker and ValidateAPI).
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"minter/internal/pkg/errors"
)

// Queue engines understood by the worker and the API.
const (
	QueueEngineRedis = "redis"
	QueueEngineAsynq = "asynq"
)

// Storage providers for the receipt archive.
const (
	StorageNone    = "none"
	StorageLocalFS = "localfs"
	StorageGDrive  = "gdrive"
)

// Config is the root configuration shared by every minter binary.
type Config struct {
	Log      LogConfig
	Redis    RedisConfig
	Queue    QueueConfig
	Postgres PostgresConfig
	Chain    ChainConfig
	Storage  StorageConfig
	HTTP     HTTPConfig
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level     string `env:"LOG_LEVEL"  envDefault:"info"`
	Format    string `env:"LOG_FORMAT" envDefault:"json"`
	AddSource bool   `env:"LOG_SOURCE" envDefault:"false"`
}

// RedisConfig holds the queue store connection string.
type RedisConfig struct {
	URL string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
}

// QueueConfig describes the mint queue and its retry policy.
type QueueConfig struct {
	Name        string        `env:"QUEUE_NAME"         envDefault:"mint-queue"`
	Engine      string        `env:"QUEUE_ENGINE"       envDefault:"redis"`
	Concurrency int           `env:"WORKER_CONCURRENCY" envDefault:"1"`
	Attempts    int           `env:"JOB_ATTEMPTS"       envDefault:"3"`
	Backoff     time.Duration `env:"JOB_BACKOFF"        envDefault:"5s"`
	MaxBackoff  time.Duration `env:"JOB_MAX_BACKOFF"    envDefault:"5m"`
}

// PostgresConfig holds the teams database settings.
type PostgresConfig struct {
	URL           string `env:"DATABASE_URL"`
	RunMigrations bool   `env:"DB_RUN_MIGRATIONS" envDefault:"true"`
}

// ChainConfig holds everything needed to sign and broadcast batchMint calls.
type ChainConfig struct {
	RPCURL          string `env:"RPC_URL"`
	PrivateKey      string `env:"PRIVATE_KEY"`
	ContractAddress string `env:"CONTRACT_ADDRESS"`
	ChainID         int64  `env:"CHAIN_ID" envDefault:"11155111"`
}

// StorageConfig selects where mint receipts are archived.
type StorageConfig struct {
	Provider  string `env:"STORAGE_PROVIDER"   envDefault:"none"`
	LocalRoot string `env:"STORAGE_LOCAL_ROOT" envDefault:"/data"`
	GDrive    GDriveConfig
}

// GDriveConfig holds OAuth credentials for the Google Drive provider.
type GDriveConfig struct {
	ClientID     string `env:"GDRIVE_CLIENT_ID"`
	ClientSecret string `env:"GDRIVE_CLIENT_SECRET"`
	RefreshToken string `env:"GDRIVE_REFRESH_TOKEN"`
	FolderID     string `env:"GDRIVE_FOLDER_ID"`
}

// HTTPConfig configures the API server and the worker metrics listener.
type HTTPConfig struct {
	Port               string        `env:"HTTP_PORT"            envDefault:"8080"`
	MetricsAddr        string        `env:"METRICS_ADDR"         envDefault:":9090"`
	RequestTimeout     time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`
}

// Load reads .env (when present) and parses the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// Sanitize normalizes values and applies guardrails after parsing.
func (c *Config) Sanitize() {
	c.Queue.Engine = strings.ToLower(strings.TrimSpace(c.Queue.Engine))
	c.Storage.Provider = strings.ToLower(strings.TrimSpace(c.Storage.Provider))
	if c.Storage.Provider == "" {
		c.Storage.Provider = StorageNone
	}
	if c.Queue.Concurrency < 1 {
		c.Queue.Concurrency = 1
	}
	if c.Queue.Attempts < 1 {
		c.Queue.Attempts = 1
	}
	if c.Queue.Backoff <= 0 {
		c.Queue.Backoff = 5 * time.Second
	}
	if c.Queue.MaxBackoff < c.Queue.Backoff {
		c.Queue.MaxBackoff = c.Queue.Backoff
	}
	c.Chain.PrivateKey = strings.TrimSpace(c.Chain.PrivateKey)
	c.Chain.ContractAddress = strings.TrimSpace(c.Chain.ContractAddress)
}

// ValidateWorker checks the settings the mint worker cannot run without.
func (c *Config) ValidateWorker() error {
	missing := missingKeys(map[string]string{
		"DATABASE_URL":     c.Postgres.URL,
		"RPC_URL":          c.Chain.RPCURL,
		"PRIVATE_KEY":      c.Chain.PrivateKey,
		"CONTRACT_ADDRESS": c.Chain.ContractAddress,
	})
	if len(missing) > 0 {
		return errors.Validationf("missing required environment: %s", strings.Join(missing, ", ")).
			WithField("missing", missing)
	}
	if err := c.validateQueue(); err != nil {
		return err
	}
	return c.validateStorage()
}

// ValidateAPI checks the settings the enqueue API needs.
func (c *Config) ValidateAPI() error {
	if strings.TrimSpace(c.Postgres.URL) == "" {
		return errors.ValidationField("DATABASE_URL", "missing required environment: DATABASE_URL")
	}
	return c.validateQueue()
}

func (c *Config) validateQueue() error {
	switch c.Queue.Engine {
	case QueueEngineRedis, QueueEngineAsynq:
	default:
		return errors.ValidationField("QUEUE_ENGINE", fmt.Sprintf("unknown queue engine %q", c.Queue.Engine))
	}
	if strings.TrimSpace(c.Queue.Name) == "" {
		return errors.ValidationField("QUEUE_NAME", "queue name must not be empty")
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Provider {
	case StorageNone:
		return nil
	case StorageLocalFS:
		if strings.TrimSpace(c.Storage.LocalRoot) == "" {
			return errors.ValidationField("STORAGE_LOCAL_ROOT", "localfs storage requires a root directory")
		}
		return nil
	case StorageGDrive:
		g := c.Storage.GDrive
		missing := missingKeys(map[string]string{
			"GDRIVE_CLIENT_ID":     g.ClientID,
			"GDRIVE_CLIENT_SECRET": g.ClientSecret,
			"GDRIVE_REFRESH_TOKEN": g.RefreshToken,
		})
		if len(missing) > 0 {
			return errors.Validationf("gdrive storage requires: %s", strings.Join(missing, ", ")).
				WithField("missing", missing)
		}
		return nil
	default:
		return errors.ValidationField("STORAGE_PROVIDER", fmt.Sprintf("unknown storage provider %q", c.Storage.Provider))
	}
}

func missingKeys(values map[string]string) []string {
	var out []string
	for k, v := range values {
		if strings.TrimSpace(v) == "" {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
