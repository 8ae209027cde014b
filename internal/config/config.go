package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // company timezones must resolve on minimal images

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Storage  StorageConfig
	SMTP     SMTPConfig
	AI       AIConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Payroll  PayrollConfig
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
	Timezone    string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// AIConfig configures the generative model used for verification and assistant features.
type AIConfig struct {
	APIKey    string
	Model     string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
}

// RedisConfig is optional. An empty Addr keeps the clock lock in-process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// KafkaConfig is optional. No brokers means lifecycle events are dropped.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type PayrollConfig struct {
	BasicSalary decimal.Decimal
	Deductions  decimal.Decimal
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, reading configuration from environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "cmlabs-ems"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		AutoMigrate: getEnv("DB_AUTO_MIGRATE", "false") == "true",
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
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
		From:     getEnv("SMTP_FROM", "no-reply@localhost"),
		FromName: getEnv("SMTP_FROM_NAME", "EMS"),
	}

	aiTimeout, err := time.ParseDuration(getEnv("AI_TIMEOUT", "20s"))
	if err != nil {
		return nil, fmt.Errorf("invalid AI_TIMEOUT: %w", err)
	}
	aiRate, err := strconv.ParseFloat(getEnv("AI_RATE_LIMIT", "0.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid AI_RATE_LIMIT: %w", err)
	}
	aiBurst, err := strconv.Atoi(getEnv("AI_RATE_BURST", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid AI_RATE_BURST: %w", err)
	}
	config.AI = AIConfig{
		APIKey:    getEnv("GEMINI_API_KEY", ""),
		Model:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		Timeout:   aiTimeout,
		RateLimit: aiRate,
		RateBurst: aiBurst,
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	lockTTL, err := time.ParseDuration(getEnv("CLOCK_LOCK_TTL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOCK_LOCK_TTL: %w", err)
	}
	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
		LockTTL:  lockTTL,
	}

	config.Kafka = KafkaConfig{
		Brokers: getEnvSlice("KAFKA_BROKERS"),
		Topic:   getEnv("KAFKA_TOPIC", "ems.employee-lifecycle"),
	}

	basic, err := decimal.NewFromString(getEnv("PAYROLL_BASIC_SALARY", "5000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_BASIC_SALARY: %w", err)
	}
	deductions, err := decimal.NewFromString(getEnv("PAYROLL_DEDUCTIONS", "500"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_DEDUCTIONS: %w", err)
	}
	config.Payroll = PayrollConfig{BasicSalary: basic, Deductions: deductions}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.AI.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Payroll.Deductions.GreaterThan(c.Payroll.BasicSalary) {
		return fmt.Errorf("PAYROLL_DEDUCTIONS cannot exceed PAYROLL_BASIC_SALARY")
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
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
