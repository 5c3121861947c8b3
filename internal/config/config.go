package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the attendance service.
type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	DatabaseDriver string
	DatabaseURL    string
	SQLitePath     string
	RedisURL       string
	NATSURL        string
	ScanSubject    string

	JWTSecret string
	TokenTTL  time.Duration

	MiddlewareURL     string
	MiddlewareTimeout time.Duration
	CaptureTimeout    time.Duration
	PollInterval      time.Duration
	OpenRetries       int
	OpenRetryDelay    time.Duration
	MinQuality        int

	RosterCacheTTL time.Duration
	SweepInterval  time.Duration

	KioskRateLimit  int
	KioskRateWindow time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ATTEND")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Attendance API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("sqlite.path", "attendance.db")
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("scan.subject", "attendance.scans")
	v.SetDefault("token.ttl", "12h")
	v.SetDefault("middleware.url", "http://localhost:5198")
	v.SetDefault("middleware.timeout", "45s")
	v.SetDefault("capture.timeout", "30s")
	v.SetDefault("capture.poll_interval", "200ms")
	v.SetDefault("capture.open_retries", 3)
	v.SetDefault("capture.open_retry_delay", "1s")
	v.SetDefault("capture.min_quality", 60)
	v.SetDefault("roster.cache_ttl", "15s")
	v.SetDefault("sweep.interval", "1m")
	v.SetDefault("kiosk.rate_limit", 30)
	v.SetDefault("kiosk.rate_window", "1m")

	durations := map[string]*time.Duration{}
	cfg := Config{
		AppName:        v.GetString("app.name"),
		AppEnv:         v.GetString("app.env"),
		AppPort:        v.GetString("app.port"),
		DatabaseDriver: strings.ToLower(v.GetString("database.driver")),
		DatabaseURL:    v.GetString("database.url"),
		SQLitePath:     v.GetString("sqlite.path"),
		RedisURL:       v.GetString("redis.url"),
		NATSURL:        v.GetString("nats.url"),
		ScanSubject:    v.GetString("scan.subject"),
		JWTSecret:      v.GetString("jwt.secret"),
		MiddlewareURL:  v.GetString("middleware.url"),
		OpenRetries:    v.GetInt("capture.open_retries"),
		MinQuality:     v.GetInt("capture.min_quality"),
		KioskRateLimit: v.GetInt("kiosk.rate_limit"),
	}

	durations["token.ttl"] = &cfg.TokenTTL
	durations["middleware.timeout"] = &cfg.MiddlewareTimeout
	durations["capture.timeout"] = &cfg.CaptureTimeout
	durations["capture.poll_interval"] = &cfg.PollInterval
	durations["capture.open_retry_delay"] = &cfg.OpenRetryDelay
	durations["roster.cache_ttl"] = &cfg.RosterCacheTTL
	durations["sweep.interval"] = &cfg.SweepInterval
	durations["kiosk.rate_window"] = &cfg.KioskRateWindow

	for key, target := range durations {
		parsed, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return Config{}, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		*target = parsed
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	switch cfg.DatabaseDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("database url must be provided for postgres")
		}
	case "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	if cfg.OpenRetries <= 0 {
		cfg.OpenRetries = 3
	}

	return cfg, nil
}
