package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable consumed by the app.
	EnvPrefix = "boom"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Exported env names keep tests and deploy manifests in sync with the struct tags.
const (
	EnvAppEnv          = "BOOM_APP_ENV"
	EnvAppPort         = "BOOM_APP_PORT"
	EnvDBDSN           = "BOOM_DB_DSN"
	EnvRedisURL        = "BOOM_REDIS_URL"
	EnvFirebaseProject = "BOOM_FIREBASE_PROJECT_ID"
	EnvSMTPUser        = "BOOM_SMTP_USER"
	EnvSMTPPassword    = "BOOM_SMTP_PASSWORD"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Firebase      FirebaseConfig
	SMTP          SMTPConfig
	Queue         QueueConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

// Load reads the full configuration from the environment. It is called once
// per process; constructed clients are passed down explicitly from main.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BOOM_APP_ENV" required:"true"`
	Port         string `envconfig:"BOOM_APP_PORT" default:"8080"`
	BaseURL      string `envconfig:"BOOM_APP_URL" default:"http://localhost:8080"`
	LogLevel     string `envconfig:"BOOM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BOOM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return a.Env == AppEnvDev
}

func (a AppConfig) IsProd() bool {
	return a.Env == AppEnvProd
}

type DBConfig struct {
	DSN    string `envconfig:"BOOM_DB_DSN" required:"true"`
	Driver string `envconfig:"BOOM_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"BOOM_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BOOM_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BOOM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BOOM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BOOM_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"BOOM_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BOOM_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BOOM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BOOM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BOOM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FirebaseConfig struct {
	ProjectID       string `envconfig:"BOOM_FIREBASE_PROJECT_ID" required:"true"`
	CredentialsPath string `envconfig:"BOOM_FIREBASE_CREDENTIALS_PATH"`
	CredentialsJSON string `envconfig:"BOOM_FIREBASE_CREDENTIALS_JSON"`
}

type SMTPConfig struct {
	Host     string `envconfig:"BOOM_SMTP_HOST" default:"smtp.gmail.com"`
	Port     int    `envconfig:"BOOM_SMTP_PORT" default:"465"`
	User     string `envconfig:"BOOM_SMTP_USER" required:"true"`
	Password string `envconfig:"BOOM_SMTP_PASSWORD" required:"true"`
	From     string `envconfig:"BOOM_SMTP_FROM"`
}

// Sender returns the From address, falling back to the SMTP user.
func (s SMTPConfig) Sender() string {
	if s.From != "" {
		return s.From
	}
	return s.User
}

type QueueConfig struct {
	PollIntervalMS int    `envconfig:"BOOM_QUEUE_POLL_INTERVAL_MS" default:"500"`
	BatchSize      int    `envconfig:"BOOM_QUEUE_BATCH_SIZE" default:"20"`
	MaxAttempts    int    `envconfig:"BOOM_QUEUE_MAX_ATTEMPTS" default:"3"`
	BackoffBaseMS  int    `envconfig:"BOOM_QUEUE_BACKOFF_BASE_MS" default:"2000"`
	KeepCompleted  int    `envconfig:"BOOM_QUEUE_KEEP_COMPLETED" default:"1000"`
	KeepFailed     int    `envconfig:"BOOM_QUEUE_KEEP_FAILED" default:"100"`
	StaleActiveSec int    `envconfig:"BOOM_QUEUE_STALE_ACTIVE_SEC" default:"300"`
	MetricsPort    string `envconfig:"BOOM_QUEUE_METRICS_PORT" default:"9090"`
}

type AuthRateLimitConfig struct {
	ForgotWindow       time.Duration `envconfig:"BOOM_AUTH_RATE_LIMIT_FORGOT_WINDOW" default:"1m"`
	ForgotEmailLimit   int           `envconfig:"BOOM_AUTH_RATE_LIMIT_FORGOT_EMAIL_LIMIT" default:"3"`
	ForgotIPLimit      int           `envconfig:"BOOM_AUTH_RATE_LIMIT_FORGOT_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BOOM_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BOOM_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BOOM_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BOOM_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BOOM_AUTO_MIGRATE" default:"false"`
}
