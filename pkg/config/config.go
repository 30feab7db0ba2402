package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	// IdentityDev trusts "dev-<subject>" login codes. Never enable it in production.
	IdentityDev = "dev"
)

// Config holds runtime configuration read from the environment
type Config struct {
	Port           string
	LogLevel       string
	RequestTimeout time.Duration

	StoreDriver     string
	DatabaseURL     string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBConnMaxLife   time.Duration
	RedisAddr       string
	RedisPass       string
	AWSRegion       string
	AWSBucket       string
	StorageBasePath string

	JWTSecret         string
	JWTIssuer         string
	OperatorTokenTTL  time.Duration
	CandidateTokenTTL time.Duration
	// IdentityProvider selects how candidate login codes are resolved.
	// Empty disables candidate login.
	IdentityProvider string

	SubmitDebounce        time.Duration
	AdminListCap          int
	ExportDefaultLimit    int
	ExportMaxLimit        int
	ProjectionWorkers     int
	ProjectionMaxAttempts int
}

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),

		StoreDriver:     getEnv("STORE_DRIVER", DriverPostgres),
		DatabaseURL:     getEnv("DATABASE_URL", dsnFromParts()),
		DBMaxOpenConns:  getInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  getInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLife:   getDuration("DB_CONN_MAX_LIFE", 5*time.Minute),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPass:       getEnv("REDIS_PASS", ""),
		AWSRegion:       getEnv("AWS_REGION", ""),
		AWSBucket:       getEnv("AWS_BUCKET", ""),
		StorageBasePath: getEnv("STORAGE_BASE_PATH", "uploads"),

		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTIssuer:         getEnv("JWT_ISSUER", "hirehub"),
		OperatorTokenTTL:  getDuration("OPERATOR_TOKEN_TTL", 12*time.Hour),
		CandidateTokenTTL: getDuration("CANDIDATE_TOKEN_TTL", 7*24*time.Hour),
		IdentityProvider:  getEnv("IDENTITY_PROVIDER", ""),

		SubmitDebounce:        getDuration("SUBMIT_DEBOUNCE", 3*time.Second),
		AdminListCap:          getInt("ADMIN_LIST_CAP", 100),
		ExportDefaultLimit:    getInt("EXPORT_DEFAULT_LIMIT", 200),
		ExportMaxLimit:        getInt("EXPORT_MAX_LIMIT", 1000),
		ProjectionWorkers:     getInt("PROJECTION_WORKERS", 2),
		ProjectionMaxAttempts: getInt("PROJECTION_MAX_ATTEMPTS", 5),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL or DB_HOST/DB_NAME is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.AdminListCap <= 0 || c.ExportDefaultLimit <= 0 || c.ExportMaxLimit < c.ExportDefaultLimit {
		return errors.New("ADMIN_LIST_CAP and EXPORT_*_LIMIT must be positive and EXPORT_MAX_LIMIT >= EXPORT_DEFAULT_LIMIT")
	}
	if c.SubmitDebounce <= 0 {
		return errors.New("SUBMIT_DEBOUNCE must be positive")
	}
	switch c.IdentityProvider {
	case "", IdentityDev:
	default:
		return fmt.Errorf("unknown IDENTITY_PROVIDER %q", c.IdentityProvider)
	}
	return nil
}

// UsesMemoryStore reports whether the in-process store is selected
func (c *Config) UsesMemoryStore() bool {
	return c.StoreDriver == DriverMemory
}

func dsnFromParts() string {
	host := os.Getenv("DB_HOST")
	name := os.Getenv("DB_NAME")
	if host == "" || name == "" {
		return ""
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, getEnv("DB_PORT", "5432"), os.Getenv("DB_USER"), os.Getenv("DB_PASS"), name)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
