package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Crawler   CrawlerConfig
	Storage   StorageConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the headless browser launched per invocation.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in containers).
	NoSandbox bool // default: true

	// Bin overrides the Chromium binary path. When empty, a list of
	// well-known install locations is probed.
	Bin string

	// Stealth enables anti-bot-detection evasions.
	Stealth bool // default: false

	// UserAgent is sent with every request.
	UserAgent string

	// Proxy is an optional proxy URL for all requests.
	Proxy string
}

// CrawlerConfig controls the extraction run itself.
type CrawlerConfig struct {
	// BaseURL is the exchange-rate listing page.
	BaseURL string // default: Daum finance KRW/USD listing

	// DefaultTarget is the session label searched for when the request
	// does not name one.
	DefaultTarget string // default: "1회"

	// RunTimeout bounds one whole invocation.
	RunTimeout time.Duration // default: 90s
}

// StorageConfig controls the object store writes.
type StorageConfig struct {
	// DefaultBucket receives results when the request names no bucket.
	DefaultBucket string // default: "exchange-rate-crawler-bucket"
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per API key.
	Burst int // default: 2
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
// A local .env file is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: envOr("RATECRAWL_HOST", "0.0.0.0"),
			Port: envIntOr("RATECRAWL_PORT", 8080),
			Mode: envOr("RATECRAWL_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:  envBoolOr("RATECRAWL_HEADLESS", true),
			NoSandbox: envBoolOr("RATECRAWL_NO_SANDBOX", true),
			Bin:       os.Getenv("RATECRAWL_BROWSER_BIN"),
			Stealth:   envBoolOr("RATECRAWL_STEALTH", false),
			UserAgent: envOr("RATECRAWL_USER_AGENT",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
			Proxy: os.Getenv("RATECRAWL_PROXY"),
		},
		Crawler: CrawlerConfig{
			BaseURL:       envOr("RATECRAWL_BASE_URL", "https://finance.daum.net/exchanges/FRX.KRWUSD"),
			DefaultTarget: envOr("RATECRAWL_DEFAULT_TARGET", "1회"),
			RunTimeout:    envDurationOr("RATECRAWL_RUN_TIMEOUT", 90*time.Second),
		},
		Storage: StorageConfig{
			DefaultBucket: envOr("S3_BUCKET_NAME", "exchange-rate-crawler-bucket"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("RATECRAWL_AUTH_ENABLED", false),
			APIKeys: envSliceOr("RATECRAWL_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("RATECRAWL_RATE_RPS", 1.0),
			Burst:             envIntOr("RATECRAWL_RATE_BURST", 2),
		},
		Log: LogConfig{
			Level:  envOr("RATECRAWL_LOG_LEVEL", "info"),
			Format: envOr("RATECRAWL_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
