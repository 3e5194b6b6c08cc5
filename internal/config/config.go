package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Engine   EngineConfig
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
}

// EngineConfig holds the classification and accounting defaults applied
// when a company has not configured its own policy or settings.
type EngineConfig struct {
	DefaultShiftStart      string
	DefaultShiftEnd        string
	DefaultTimeZone        string
	DefaultLateGraceMins   int
	DefaultFullDayHours    float64
	DefaultHalfDayHours    float64
	DefaultMonthlyWorkDays int
	LeaveYearStartMonth    time.Month
}

func Load() (*Config, error) {
	// A missing .env file is fine in containerized deployments; variables
	// come from the environment there.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendly"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Engine defaults
	graceMins, err := strconv.Atoi(getEnv("DEFAULT_LATE_GRACE_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_LATE_GRACE_MINUTES: %w", err)
	}
	fullDayHours, err := strconv.ParseFloat(getEnv("DEFAULT_FULL_DAY_HOURS", "9"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_FULL_DAY_HOURS: %w", err)
	}
	halfDayHours, err := strconv.ParseFloat(getEnv("DEFAULT_HALF_DAY_HOURS", "4.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_HALF_DAY_HOURS: %w", err)
	}
	monthlyWorkDays, err := strconv.Atoi(getEnv("DEFAULT_MONTHLY_WORKING_DAYS", "26"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_MONTHLY_WORKING_DAYS: %w", err)
	}
	leaveYearStartMonth, err := strconv.Atoi(getEnv("LEAVE_YEAR_START_MONTH", "11"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_YEAR_START_MONTH: %w", err)
	}
	if leaveYearStartMonth < 1 || leaveYearStartMonth > 12 {
		return nil, fmt.Errorf("LEAVE_YEAR_START_MONTH must be between 1 and 12")
	}

	config.Engine = EngineConfig{
		DefaultShiftStart:      getEnv("DEFAULT_SHIFT_START", "09:00"),
		DefaultShiftEnd:        getEnv("DEFAULT_SHIFT_END", "18:00"),
		DefaultTimeZone:        getEnv("DEFAULT_TIME_ZONE", "Asia/Jakarta"),
		DefaultLateGraceMins:   graceMins,
		DefaultFullDayHours:    fullDayHours,
		DefaultHalfDayHours:    halfDayHours,
		DefaultMonthlyWorkDays: monthlyWorkDays,
		LeaveYearStartMonth:    time.Month(leaveYearStartMonth),
	}

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
	if c.Engine.DefaultHalfDayHours >= c.Engine.DefaultFullDayHours {
		return fmt.Errorf("DEFAULT_HALF_DAY_HOURS must be below DEFAULT_FULL_DAY_HOURS")
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
