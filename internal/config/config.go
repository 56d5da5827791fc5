package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	SMTP         SMTPConfig
	Storage      StorageConfig
	Redis        RedisConfig
	PubSub       PubSubConfig
	Notification NotificationConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	// Persistence selects the repository backend: "postgres" or "memory".
	Persistence        string
	Timezone           string
	Location           *time.Location
	CORSAllowedOrigins []string
	AdminSignupKey     string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// StorageConfig selects where face photos and request images are kept.
type StorageConfig struct {
	Type               string // local | gcs
	BasePath           string
	BaseURL            string
	GCSBucket          string
	GCSCredentialsJSON string
}

type RedisConfig struct {
	URL      string
	PoolSize int
	LockTTL  time.Duration
}

type PubSubConfig struct {
	ProjectID       string
	Topic           string
	CredentialsJSON string
}

// NotificationConfig configures the outbound event dispatcher.
type NotificationConfig struct {
	AdminEmail string
	Workers    int
	QueueSize  int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, reading configuration from environment")
	}

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hrms"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	timezone := getEnv("APP_TIMEZONE", "Asia/Kolkata")
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Persistence:        getEnv("PERSISTENCE", "postgres"),
		Timezone:           timezone,
		Location:           loc,
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
		AdminSignupKey:     getEnv("ADMIN_SIGNUP_KEY", ""),
	}
	if len(config.App.CORSAllowedOrigins) == 0 {
		config.App.CORSAllowedOrigins = []string{"http://localhost:3000"}
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", ""),
		FromName: getEnv("SMTP_FROM_NAME", "HR Attendance"),
	}

	config.Storage = StorageConfig{
		Type:               getEnv("STORAGE_TYPE", "local"),
		BasePath:           getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:            getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
		GCSBucket:          getEnv("GCS_BUCKET", ""),
		GCSCredentialsJSON: getEnv("GCS_CREDENTIALS_JSON", ""),
	}

	redisPoolSize, err := strconv.Atoi(getEnv("REDIS_POOL_SIZE", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_POOL_SIZE: %w", err)
	}
	lockTTL, err := time.ParseDuration(getEnv("REDIS_LOCK_TTL", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_LOCK_TTL: %w", err)
	}

	config.Redis = RedisConfig{
		URL:      getEnv("REDIS_URL", ""),
		PoolSize: redisPoolSize,
		LockTTL:  lockTTL,
	}

	config.PubSub = PubSubConfig{
		ProjectID:       getEnv("PUBSUB_PROJECT_ID", getEnv("GOOGLE_CLOUD_PROJECT", "")),
		Topic:           getEnv("PUBSUB_TOPIC", ""),
		CredentialsJSON: getEnv("PUBSUB_CREDENTIALS_JSON", ""),
	}

	workers, err := strconv.Atoi(getEnv("NOTIFY_WORKERS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_WORKERS: %w", err)
	}
	queueSize, err := strconv.Atoi(getEnv("NOTIFY_QUEUE_SIZE", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_QUEUE_SIZE: %w", err)
	}

	config.Notification = NotificationConfig{
		AdminEmail: getEnv("ADMIN_NOTIFICATION_EMAIL", ""),
		Workers:    workers,
		QueueSize:  queueSize,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.App.Persistence {
	case "postgres":
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported PERSISTENCE %q", c.App.Persistence)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Storage.Type == "gcs" && c.Storage.GCSBucket == "" {
		return fmt.Errorf("GCS_BUCKET is required when STORAGE_TYPE=gcs")
	}
	if c.PubSub.Topic != "" && c.PubSub.ProjectID == "" {
		return fmt.Errorf("PUBSUB_PROJECT_ID is required when PUBSUB_TOPIC is set")
	}
	if c.Notification.AdminEmail == "" {
		slog.Warn("ADMIN_NOTIFICATION_EMAIL not set, exception request emails will be skipped")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
