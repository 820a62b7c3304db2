package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Storage backend names accepted in STORAGE_BACKEND
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
)

// Config holds all configuration for the log service
type Config struct {
	// Server configuration
	HTTPPort int    `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Storage backend selection
	Storage StorageConfig

	// Redis configuration (storage and events when backend is redis)
	Redis RedisConfig

	// MySQL configuration (Cloud SQL backend)
	MySQL MySQLConfig

	// Ingest pipeline configuration
	Ingest IngestConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// StorageConfig selects and tunes the entry store
type StorageConfig struct {
	Backend string `env:"STORAGE_BACKEND" envDefault:"memory"`

	// EntryTTL expires entries in backends that support it. Zero keeps
	// entries forever.
	EntryTTL time.Duration `env:"STORAGE_ENTRY_TTL" envDefault:"0"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// MySQLConfig holds MySQL (Cloud SQL) connection configuration
type MySQLConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost:3306"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASS"`
	Database string `env:"DB_NAME"`

	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"2"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// IngestConfig holds write-behind pipeline configuration
type IngestConfig struct {
	QueueSize           int           `env:"INGEST_QUEUE_SIZE" envDefault:"1024"`
	Workers             int           `env:"INGEST_WORKERS" envDefault:"4"`
	MaxRetries          int           `env:"INGEST_MAX_RETRIES" envDefault:"3"`
	RetryDelay          time.Duration `env:"INGEST_RETRY_DELAY" envDefault:"1s"`
	HealthCheckInterval time.Duration `env:"INGEST_HEALTH_CHECK_INTERVAL" envDefault:"30s"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	StoreTimeout    time.Duration `env:"TIMEOUT_STORE" envDefault:"5s"`
	ShutdownTimeout time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required for the redis backend")
		}
	case BackendMySQL:
		if c.MySQL.User == "" || c.MySQL.Database == "" {
			return fmt.Errorf("DB_USER and DB_NAME are required for the mysql backend")
		}
	default:
		return fmt.Errorf("unsupported storage backend: %s (must be memory, redis, or mysql)",
			c.Storage.Backend)
	}

	if c.Ingest.QueueSize < 1 {
		return fmt.Errorf("ingest queue size must be at least 1")
	}
	if c.Ingest.Workers < 1 {
		return fmt.Errorf("ingest worker count must be at least 1")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// DSN builds the MySQL data source name
func (c *MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC",
		c.User, c.Password, c.Host, c.Database)
}
