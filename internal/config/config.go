package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"lore-server/internal/utils"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds process-level settings. Analysis limits (AI_ENABLED,
// AI_MODEL, AI_MAX_*, AI_DAILY_TOKEN_BUDGET) are not here: they are
// re-read on every analysis call.
type Config struct {
	Env        string `envconfig:"ENV" default:"development"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat  string `envconfig:"LOG_FORMAT" default:"json"`
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"90s"`
	IdleTimeout     time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`

	DBHost         string        `envconfig:"DB_HOST" default:"localhost"`
	DBPort         string        `envconfig:"DB_PORT" default:"5432"`
	DBUser         string        `envconfig:"DB_USER" default:"lore"`
	DBName         string        `envconfig:"DB_NAME" default:"lore"`
	DBSSLMode      string        `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns     int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	DBIdleTimeout  time.Duration `envconfig:"DB_IDLE_TIMEOUT" default:"5m"`
	DBConnAttempts int           `envconfig:"DB_CONNECT_ATTEMPTS" default:"5"`
	DBPassword     string        `ignored:"true"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPassword string `ignored:"true"`

	JWTSecret string `ignored:"true"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// AI backend. An empty key with the openai backend means placeholder mode.
	AIClientType string        `envconfig:"AI_CLIENT_TYPE" default:"openai"`
	AIBaseURL    string        `envconfig:"AI_BASE_URL"`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
	AIAPIKey     string        `ignored:"true"`

	// AIRateLimit is "N/period", for example "10/min".
	AIRateLimit      string `envconfig:"AI_RATE_LIMIT" default:"10/min"`
	RateLimitBackend string `envconfig:"RATE_LIMIT_BACKEND" default:"redis"`

	// QuotaBackend stores the daily token ledger: redis or memory.
	QuotaBackend     string `envconfig:"QUOTA_BACKEND" default:"redis"`
	AIBudgetTimezone string `envconfig:"AI_BUDGET_TIMEZONE" default:"UTC"`

	// RabbitMQURL enables usage events when set.
	RabbitMQURL  string `envconfig:"RABBITMQ_URL"`
	AIUsageQueue string `envconfig:"AI_USAGE_QUEUE" default:"ai_usage_events"`
}

// GetAllowedOrigins splits CORSAllowedOrigins on commas.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// BudgetLocation resolves AIBudgetTimezone.
func (c *Config) BudgetLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.AIBudgetTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid AI_BUDGET_TIMEZONE %q: %w", c.AIBudgetTimezone, err)
	}
	return loc, nil
}

// PostgresDSN builds a libpq-style URL for pgx and golang-migrate.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// LoadConfig loads an optional env file, then the environment, then secrets.
func LoadConfig(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if _, err := os.Stat(envFilePath); err == nil {
			if err := godotenv.Load(envFilePath); err != nil {
				log.Printf("Warning: could not load %s: %v", envFilePath, err)
			} else {
				log.Printf("Loaded configuration from %s", envFilePath)
			}
		} else if !os.IsNotExist(err) {
			log.Printf("Warning: error checking %s: %v", envFilePath, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	var err error
	cfg.JWTSecret, err = utils.ReadSecretOrEnv("jwt_secret", "JWT_SECRET")
	if err != nil {
		return nil, err
	}

	// Optional secrets.
	cfg.DBPassword, err = utils.ReadSecretOrEnv("db_password", "DB_PASSWORD")
	if err != nil && !errors.Is(err, utils.ErrSecretNotFound) {
		return nil, err
	}
	cfg.RedisPassword, _ = utils.ReadSecretOrEnv("redis_password", "REDIS_PASSWORD")
	cfg.AIAPIKey, _ = utils.ReadSecretOrEnv("ai_api_key", "AI_API_KEY")

	if _, err := cfg.BudgetLocation(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
