package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Settings that differ per deployment (port, database, secrets) are required;
// booking policy and tuning carry defaults.

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Booking BookingConfig
	Outbox  OutboxConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Location,Idempotent-Replayed"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
}

// Empty Addr disables the reservation cache.
type RedisConfig struct {
	Addr      string        `envconfig:"REDIS_ADDR"`
	Password  string        `envconfig:"REDIS_PASSWORD"`
	DB        int           `envconfig:"REDIS_DB" default:"0"`
	TTL       time.Duration `envconfig:"REDIS_TTL" default:"5m"`
	FenceTTL  time.Duration `envconfig:"REDIS_FENCE_TTL" default:"5s"`
	KeyPrefix string        `envconfig:"REDIS_KEY_PREFIX" default:"booking:"`
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"KAFKA_RESERVATION_TOPIC" default:"reservation-events"`
}

// A zero SweepInterval turns off the sweep and reconcile loop inside serve.
type BookingConfig struct {
	DefaultCurrency string        `envconfig:"BOOKING_DEFAULT_CURRENCY" default:"USD"`
	PendingHoldTTL  time.Duration `envconfig:"BOOKING_PENDING_HOLD_TTL" default:"30m"`
	SweepBatchSize  int           `envconfig:"BOOKING_SWEEP_BATCH_SIZE" default:"100"`
	IdempotencyTTL  time.Duration `envconfig:"BOOKING_IDEMPOTENCY_TTL" default:"24h"`
	SweepInterval   time.Duration `envconfig:"BOOKING_SWEEP_INTERVAL" default:"1m"`
}

type OutboxConfig struct {
	PollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"2s"`
	BatchSize    int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err.Error())
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects booking policy that envconfig accepts but the engine cannot run with.
func (c Config) Validate() error {
	var problems []string
	if len(c.Booking.DefaultCurrency) != 3 || strings.ToUpper(c.Booking.DefaultCurrency) != c.Booking.DefaultCurrency {
		problems = append(problems, "BOOKING_DEFAULT_CURRENCY must be a three letter upper-case code")
	}
	if c.Booking.PendingHoldTTL <= 0 {
		problems = append(problems, "BOOKING_PENDING_HOLD_TTL must be positive")
	}
	if c.Booking.IdempotencyTTL <= 0 {
		problems = append(problems, "BOOKING_IDEMPOTENCY_TTL must be positive")
	}
	if c.Booking.SweepBatchSize <= 0 {
		problems = append(problems, "BOOKING_SWEEP_BATCH_SIZE must be positive")
	}
	if c.Booking.SweepInterval < 0 {
		problems = append(problems, "BOOKING_SWEEP_INTERVAL must not be negative")
	}
	if c.Outbox.BatchSize <= 0 || c.Outbox.PollInterval <= 0 {
		problems = append(problems, "OUTBOX_BATCH_SIZE and OUTBOX_POLL_INTERVAL must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 20,
		},
		Log: LogConfig{
			Level:          "error",
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret: "test-secret",
		},
		Booking: BookingConfig{
			DefaultCurrency: "USD",
			PendingHoldTTL:  30 * time.Minute,
			SweepBatchSize:  100,
			IdempotencyTTL:  24 * time.Hour,
			SweepInterval:   0,
		},
		Outbox: OutboxConfig{
			PollInterval: time.Second,
			BatchSize:    100,
		},
	}
}
