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
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	CORS       CORSConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string

	AccessTTL time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Name     string
	Version  string
	Port     int
	Env      string
	LogLevel string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// AttendanceConfig is the attendance policy. It is read from the YAML file at
// CONFIG_PATH when set and can be overridden by ATTENDANCE_* env vars.
type AttendanceConfig struct {
	Timezone             string  `yaml:"timezone"`
	DefaultPresentHours  float64 `yaml:"default_present_hours"`
	DefaultHalfDayHours  float64 `yaml:"default_half_day_hours"`
	ShortPunchMinutes    int     `yaml:"short_punch_minutes"`
	MaxPunchesPerDay     int     `yaml:"max_punches_per_day"`
	MaxRangeDays         int     `yaml:"max_range_days"`
	ReconcileIntervalRaw string  `yaml:"reconcile_interval"`
	StreamBufferSize     int     `yaml:"stream_buffer_size"`

	ReconcileInterval time.Duration  `yaml:"-"`
	Location          *time.Location `yaml:"-"`
}

func defaultAttendanceConfig() AttendanceConfig {
	return AttendanceConfig{
		Timezone:             "UTC",
		DefaultPresentHours:  8,
		DefaultHalfDayHours:  4,
		ShortPunchMinutes:    5,
		MaxPunchesPerDay:     20,
		MaxRangeDays:         92,
		ReconcileIntervalRaw: "1h",
		StreamBufferSize:     10,
	}
}

func Load() (*Config, error) {
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
	connLifetime, err := time.ParseDuration(getEnv("DB_CONN_MAX_LIFETIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            dbPort,
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "hris_attendance"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxConns:        int32(maxConns),
		MinConns:        int32(minConns),
		ConnMaxLifetime: connLifetime,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:     getEnv("APP_NAME", "hris-attendance"),
		Version:  getEnv("APP_VERSION", "v1.0.0"),
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	}

	// Attendance policy: defaults, then file, then env
	config.Attendance = defaultAttendanceConfig()
	if path := getEnv("CONFIG_PATH", ""); path != "" {
		if err := LoadAttendanceFile(path, &config.Attendance); err != nil {
			return nil, err
		}
	}
	if err := config.Attendance.applyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadAttendanceFile overlays the attendance section of a YAML file onto dst.
func LoadAttendanceFile(path string, dst *AttendanceConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file %s: %w", path, err)
	}

	// keys missing from the file keep the values already in dst
	file := struct {
		Attendance AttendanceConfig `yaml:"attendance"`
	}{Attendance: *dst}
	if err := yaml.Unmarshal(b, &file); err != nil {
		return fmt.Errorf("config: parse yaml: %w", err)
	}
	*dst = file.Attendance

	slog.Debug("Attendance policy loaded", "path", path)
	return nil
}

func (a *AttendanceConfig) applyEnv() error {
	a.Timezone = getEnv("ATTENDANCE_TIMEZONE", a.Timezone)
	a.ReconcileIntervalRaw = getEnv("ATTENDANCE_RECONCILE_INTERVAL", a.ReconcileIntervalRaw)

	if raw := getEnv("ATTENDANCE_MAX_RANGE_DAYS", ""); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid ATTENDANCE_MAX_RANGE_DAYS: %w", err)
		}
		a.MaxRangeDays = days
	}
	return nil
}

// Validate validates the configuration and resolves derived attendance fields
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	ttl, err := time.ParseDuration(c.JWT.AccessExpiration)
	if err != nil || ttl <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be a positive duration")
	}
	c.JWT.AccessTTL = ttl
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
	}
	return c.Attendance.validateAndNormalize()
}

func (a *AttendanceConfig) validateAndNormalize() error {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return fmt.Errorf("config: attendance.timezone %q: %w", a.Timezone, err)
	}
	a.Location = loc

	if a.DefaultPresentHours <= 0 || a.DefaultHalfDayHours <= 0 {
		return fmt.Errorf("config: attendance thresholds must be positive")
	}
	if a.DefaultHalfDayHours > a.DefaultPresentHours {
		return fmt.Errorf("config: attendance.default_half_day_hours must not exceed default_present_hours")
	}
	if a.ShortPunchMinutes < 0 || a.MaxPunchesPerDay < 0 {
		return fmt.Errorf("config: attendance anomaly thresholds must not be negative")
	}
	if a.MaxRangeDays <= 0 {
		return fmt.Errorf("config: attendance.max_range_days must be positive")
	}

	interval, err := parseDurationAllowEmpty(a.ReconcileIntervalRaw)
	if err != nil {
		return fmt.Errorf("config: attendance.reconcile_interval: %w", err)
	}
	if interval < 0 {
		return fmt.Errorf("config: attendance.reconcile_interval must not be negative")
	}
	a.ReconcileInterval = interval

	return nil
}

// ShortPunchThreshold is the duration under which a pair is flagged.
func (a AttendanceConfig) ShortPunchThreshold() time.Duration {
	return time.Duration(a.ShortPunchMinutes) * time.Minute
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

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" || raw == "0" {
		return 0, nil
	}
	return time.ParseDuration(raw)
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
