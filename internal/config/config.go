package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application runtime configuration.
type Config struct {
	Env                string
	HTTPPort           string
	DatabaseURL        string
	JWTSecret          string
	AllowedOrigins     []string
	BusinessTimezone   string
	ReportTimezone     string
	// FeedChannel must match the bdc.feed_channel database setting read by
	// the row triggers (default bdc_changes).
	FeedChannel        string
	FeedReconnectDelay time.Duration
	RateLimitPerMinute int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutdownTimeout    time.Duration
	WSWriteWait        time.Duration
	WSPongWait         time.Duration
	WSPingPeriod       time.Duration
	WSMaxMessageSize   int64
}

// Load reads environment variables and .env (if present).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "*")),
		BusinessTimezone:   getEnv("BUSINESS_TIMEZONE", "UTC"),
		ReportTimezone:     getEnv("REPORT_TIME_ZONE", "America/Denver"),
		FeedChannel:        getEnv("FEED_CHANNEL", "bdc_changes"),
		FeedReconnectDelay: getDuration("FEED_RECONNECT_DELAY", 5*time.Second),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 200),
		ReadTimeout:        getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:       getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:        getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:    getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		WSWriteWait:        getDuration("WS_WRITE_WAIT", 10*time.Second),
		WSPongWait:         getDuration("WS_PONG_WAIT", 60*time.Second),
		WSMaxMessageSize:   int64(getInt("WS_MAX_MESSAGE_SIZE", 8192)),
	}
	// Pings must go out before the peer's read deadline expires.
	cfg.WSPingPeriod = getDuration("WS_PING_PERIOD", cfg.WSPongWait*9/10)

	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}
	if cfg.WSPingPeriod >= cfg.WSPongWait {
		return cfg, fmt.Errorf("WS_PING_PERIOD (%s) must be shorter than WS_PONG_WAIT (%s)", cfg.WSPingPeriod, cfg.WSPongWait)
	}
	if _, err := time.LoadLocation(cfg.BusinessTimezone); err != nil {
		return cfg, fmt.Errorf("invalid BUSINESS_TIMEZONE: %w", err)
	}
	if _, err := time.LoadLocation(cfg.ReportTimezone); err != nil {
		return cfg, fmt.Errorf("invalid REPORT_TIME_ZONE: %w", err)
	}
	return cfg, nil
}

// AuthEnabled reports whether bearer tokens are verified.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// Support seconds as integer without suffix.
		if secs, convErr := strconv.Atoi(val); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
