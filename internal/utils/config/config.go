package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppEnv   string
	AppPort  string
	LogLevel string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	LockBackend         string
	LockTTL             time.Duration
	LockCleanupInterval time.Duration
	RedisAddr           string
	RedisPassword       string
	RedisDB             int

	WebhookSecret    string
	WebhookTolerance time.Duration
	WebhookRateLimit float64

	PaymentProvider   string
	MidtransServerKey string
	MidtransEnv       string

	CommissionRate      decimal.NullDecimal
	CommissionMinAmount decimal.NullDecimal

	BreakerFailureThreshold uint32
	BreakerResetTimeout     time.Duration

	NotifyTransport    string
	NotifyMaxAttempts  int
	NotifyBackoffBase  time.Duration
	NotifyTimeout      time.Duration
	OrderServiceURL    string
	OrderServiceAPIKey string
	AMQPURL            string

	InternalAPIKey  string
	GracefulTimeout time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "payhook"),
		DBPassword: getEnv("DB_PASSWORD", "payhook123"),
		DBName:     getEnv("DB_NAME", "payhook_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBPath:     getEnv("DB_PATH", "payhook.db"),

		LockBackend:         getEnv("LOCK_BACKEND", "database"),
		LockTTL:             parseDuration(getEnv("LOCK_TTL", "30s"), 30*time.Second),
		LockCleanupInterval: parseDuration(getEnv("LOCK_CLEANUP_INTERVAL", "1m"), time.Minute),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RedisDB:             parseInt(getEnv("REDIS_DB", "0"), 0),

		WebhookSecret:    getEnv("WEBHOOK_SECRET", ""),
		WebhookTolerance: parseDuration(getEnv("WEBHOOK_TOLERANCE", "5m"), 5*time.Minute),
		WebhookRateLimit: parseFloat(getEnv("WEBHOOK_RATE_LIMIT", "50"), 50),

		PaymentProvider:   getEnv("PAYMENT_PROVIDER", "simulator"),
		MidtransServerKey: getEnv("MIDTRANS_SERVER_KEY", ""),
		MidtransEnv:       getEnv("MIDTRANS_ENV", "sandbox"),

		CommissionRate:      parseDecimal(getEnv("COMMISSION_RATE", "")),
		CommissionMinAmount: parseDecimal(getEnv("COMMISSION_MIN_AMOUNT", "")),

		BreakerFailureThreshold: uint32(parseInt(getEnv("BREAKER_FAILURE_THRESHOLD", "5"), 5)),
		BreakerResetTimeout:     parseDuration(getEnv("BREAKER_RESET_TIMEOUT", "30s"), 30*time.Second),

		NotifyTransport:    getEnv("NOTIFY_TRANSPORT", "http"),
		NotifyMaxAttempts:  parseInt(getEnv("NOTIFY_MAX_ATTEMPTS", "3"), 3),
		NotifyBackoffBase:  parseDuration(getEnv("NOTIFY_BACKOFF_BASE", "500ms"), 500*time.Millisecond),
		NotifyTimeout:      parseDuration(getEnv("NOTIFY_TIMEOUT", "5s"), 5*time.Second),
		OrderServiceURL:    getEnv("ORDER_SERVICE_URL", "http://localhost:8081"),
		OrderServiceAPIKey: getEnv("ORDER_SERVICE_API_KEY", ""),
		AMQPURL:            getEnv("AMQP_URL", ""),

		InternalAPIKey:  getEnv("INTERNAL_API_KEY", ""),
		GracefulTimeout: parseDuration(getEnv("GRACEFUL_TIMEOUT", "5s"), 5*time.Second),
	}
}

func (c *Config) IsTest() bool {
	return c.AppEnv == "test"
}

// Validate reports every problem at once so a misconfigured deployment fails
// on the first start instead of one key at a time.
func (c *Config) Validate() error {
	var errs []error

	if !c.CommissionRate.Valid {
		errs = append(errs, errors.New("COMMISSION_RATE is required"))
	} else if c.CommissionRate.Decimal.IsNegative() || c.CommissionRate.Decimal.GreaterThan(decimal.NewFromInt(1)) {
		errs = append(errs, fmt.Errorf("COMMISSION_RATE must be between 0 and 1, got %s", c.CommissionRate.Decimal))
	}
	if !c.CommissionMinAmount.Valid {
		errs = append(errs, errors.New("COMMISSION_MIN_AMOUNT is required"))
	} else if c.CommissionMinAmount.Decimal.IsNegative() {
		errs = append(errs, errors.New("COMMISSION_MIN_AMOUNT must not be negative"))
	}

	if c.WebhookSecret == "" && !c.IsTest() {
		errs = append(errs, errors.New("WEBHOOK_SECRET is required outside APP_ENV=test"))
	}

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver))
	}

	switch c.LockBackend {
	case "database":
	case "redis":
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for LOCK_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LOCK_BACKEND %q", c.LockBackend))
	}

	switch c.PaymentProvider {
	case "simulator":
	case "midtrans":
		if c.MidtransServerKey == "" {
			errs = append(errs, errors.New("MIDTRANS_SERVER_KEY is required for PAYMENT_PROVIDER=midtrans"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown PAYMENT_PROVIDER %q", c.PaymentProvider))
	}

	switch c.NotifyTransport {
	case "http":
		if c.OrderServiceURL == "" {
			errs = append(errs, errors.New("ORDER_SERVICE_URL is required for NOTIFY_TRANSPORT=http"))
		}
	case "amqp":
		if c.AMQPURL == "" {
			errs = append(errs, errors.New("AMQP_URL is required for NOTIFY_TRANSPORT=amqp"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown NOTIFY_TRANSPORT %q", c.NotifyTransport))
	}

	if c.NotifyMaxAttempts < 1 {
		errs = append(errs, errors.New("NOTIFY_MAX_ATTEMPTS must be at least 1"))
	}
	if c.LockTTL <= 0 {
		errs = append(errs, errors.New("LOCK_TTL must be positive"))
	}

	return errors.Join(errs...)
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func parseFloat(value string, fallback float64) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseDecimal(value string) decimal.NullDecimal {
	if value == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
