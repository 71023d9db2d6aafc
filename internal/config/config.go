package config

import (
	"errors"
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
	OAuth2Google OAuth2GoogleConfig
	Attendance   AttendanceConfig
	CORS         CORSConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name         string
	Version      string
	Port         int
	Env          string
	LogLevel     string
	FrontendURL  string
	SecureCookie bool
}

// OAuth2GoogleConfig is optional; Google sign-in is disabled when ClientID is
// empty.
type OAuth2GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// AttendanceConfig holds the attendance engine settings.
type AttendanceConfig struct {
	DefaultTimezone       string
	MaxDailySessions      int
	AccuracyThreshold     float64 // meters
	AutoClockOutTime      string  // HH:MM, employee-local
	LocationRatePerMinute int
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// The .env file is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	secureCookie, err := strconv.ParseBool(getEnv("SECURE_COOKIE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SECURE_COOKIE: %w", err)
	}

	config.App = AppConfig{
		Name:         getEnv("APP_NAME", "hris-attendance"),
		Version:      getEnv("APP_VERSION", "dev"),
		Port:         appPort,
		Env:          getEnv("APP_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:3000"),
		SecureCookie: secureCookie,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// OAuth2 Google Configuration
	config.OAuth2Google = OAuth2GoogleConfig{
		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		RedirectURL:  getEnv("REDIRECT_URL", ""),
		Scopes:       getEnvSlice("SCOPES"),
	}

	// Attendance configuration
	maxSessions, err := strconv.Atoi(getEnv("MAX_DAILY_SESSIONS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_DAILY_SESSIONS: %w", err)
	}
	accuracy, err := strconv.ParseFloat(getEnv("LOCATION_ACCURACY_THRESHOLD", "2500"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid LOCATION_ACCURACY_THRESHOLD: %w", err)
	}
	ratePerMinute, err := strconv.Atoi(getEnv("LOCATION_RATE_PER_MINUTE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOCATION_RATE_PER_MINUTE: %w", err)
	}

	config.Attendance = AttendanceConfig{
		DefaultTimezone:       getEnv("DEFAULT_TIMEZONE", "Asia/Kolkata"),
		MaxDailySessions:      maxSessions,
		AccuracyThreshold:     accuracy,
		AutoClockOutTime:      getEnv("AUTO_CLOCKOUT_TIME", "23:59"),
		LocationRatePerMinute: ratePerMinute,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{config.App.FrontendURL}
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
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshExpiration); err != nil {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_TIME: %w", err)
	}

	if c.OAuth2Google.Enabled() {
		if c.OAuth2Google.ClientSecret == "" {
			return fmt.Errorf("CLIENT_SECRET is required when CLIENT_ID is set")
		}
		if c.OAuth2Google.RedirectURL == "" {
			return fmt.Errorf("REDIRECT_URL is required when CLIENT_ID is set")
		}
		if len(c.OAuth2Google.Scopes) == 0 {
			return fmt.Errorf("SCOPES is required when CLIENT_ID is set")
		}
	}

	if c.Attendance.MaxDailySessions < 1 || c.Attendance.MaxDailySessions > 3 {
		return fmt.Errorf("MAX_DAILY_SESSIONS must be between 1 and 3")
	}
	if c.Attendance.AccuracyThreshold <= 0 {
		return fmt.Errorf("LOCATION_ACCURACY_THRESHOLD must be positive")
	}
	if c.Attendance.LocationRatePerMinute <= 0 {
		return fmt.Errorf("LOCATION_RATE_PER_MINUTE must be positive")
	}
	if _, err := time.LoadLocation(c.Attendance.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid DEFAULT_TIMEZONE: %w", err)
	}
	if _, err := c.Attendance.AutoClockOutAt(); err != nil {
		return err
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

func (c OAuth2GoogleConfig) Enabled() bool {
	return c.ClientID != ""
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// AutoClockOutAt parses AutoClockOutTime into an offset from local midnight.
func (c AttendanceConfig) AutoClockOutAt() (time.Duration, error) {
	t, err := time.Parse("15:04", c.AutoClockOutTime)
	if err != nil {
		return 0, fmt.Errorf("invalid AUTO_CLOCKOUT_TIME %q: want HH:MM", c.AutoClockOutTime)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
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
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
