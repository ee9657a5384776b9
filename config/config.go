package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Addr           string
	JWTSecret      string
	RequestTimeout time.Duration
	Timezone       string

	Database DatabaseConfig
	Cron     CronConfig
	SMTP     SMTPConfig
	Roster   RosterConfig

	// memory | database
	SubmissionStore string
}

type DatabaseConfig struct {
	Driver       string // mysql | postgres | sqlite
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	Debug        bool
}

type CronConfig struct {
	Enabled              bool
	FieldTripAttendance  string
	FieldTripExpiry      string
	AttendanceCompletion string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type RosterConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	cfg := read()

	missing := []string{}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver != "sqlite" {
		missing = append(missing, "DB_DSN")
	}
	if len(missing) > 0 {
		return cfg, errors.New("missing env: " + strings.Join(missing, ", "))
	}

	switch cfg.SubmissionStore {
	case "memory", "database":
	default:
		return cfg, errors.New("SUBMISSION_STORE must be memory or database")
	}

	return cfg, nil
}

// LoadTool is Load for the command line tools, which need the database but no
// JWT secret.
func LoadTool() (Config, error) {
	cfg := read()
	if cfg.Database.DSN == "" && cfg.Database.Driver != "sqlite" {
		return cfg, errors.New("missing env: DB_DSN")
	}
	return cfg, nil
}

func read() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env not found, using system environment variables")
	}

	cfg := Config{
		AppEnv:          GetEnv("APP_ENV", "local"),
		Addr:            GetEnv("APP_ADDR", ":3000"),
		JWTSecret:       GetEnv("JWT_SECRET", ""),
		RequestTimeout:  time.Duration(GetEnvAsInt("REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,
		Timezone:        GetEnv("TIMEZONE", "Asia/Kolkata"),
		SubmissionStore: GetEnv("SUBMISSION_STORE", "memory"),
		Database: DatabaseConfig{
			Driver:       GetEnv("DB_DRIVER", "mysql"),
			DSN:          GetEnv("DB_DSN", ""),
			MaxOpenConns: GetEnvAsInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns: GetEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		},
		Cron: CronConfig{
			Enabled:              GetEnvAsBool("CRON_ENABLED", true),
			FieldTripAttendance:  GetEnv("CRON_FIELDTRIP_ATTENDANCE", "5 0 * * *"),
			FieldTripExpiry:      GetEnv("CRON_FIELDTRIP_EXPIRY", "0 0 * * *"),
			AttendanceCompletion: GetEnv("CRON_ATTENDANCE_COMPLETION", "0 23 * * *"),
		},
		SMTP: SMTPConfig{
			Host:     GetEnv("SMTP_HOST", ""),
			Port:     GetEnvAsInt("SMTP_PORT", 587),
			Username: GetEnv("SMTP_USER", ""),
			Password: GetEnv("SMTP_PASS", ""),
			From:     GetEnv("SMTP_FROM", ""),
		},
		Roster: RosterConfig{
			BaseURL: GetEnv("ROSTER_API_URL", ""),
			APIKey:  GetEnv("ROSTER_API_KEY", ""),
			Timeout: time.Duration(GetEnvAsInt("ROSTER_TIMEOUT_SECONDS", 10)) * time.Second,
		},
	}
	cfg.Database.Debug = cfg.AppEnv == "local"
	return cfg
}

// Location resolves Timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: unknown TIMEZONE %q, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

// Helper function to get environment variable with fallback default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// Helper function to get environment variable as integer with fallback
func GetEnvAsInt(key string, fallback int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func GetEnvAsBool(key string, fallback bool) bool {
	switch strings.ToLower(GetEnv(key, "")) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
