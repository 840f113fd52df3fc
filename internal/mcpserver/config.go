package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Loaded-document cache settings.
	CacheEnabled       bool
	CacheMaxEntries    int
	CacheTTL           time.Duration
	CacheSweepInterval time.Duration

	// Fetch settings.
	LoadTimeout     time.Duration
	AllowPrivateIPs bool

	// MaxContentBytes caps the rendered content a single load_document
	// call returns; larger documents are paged with content_offset.
	MaxContentBytes int64
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASRESOLVE_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("OASRESOLVE_CACHE_ENABLED", true),
		CacheMaxEntries:    envInt("OASRESOLVE_CACHE_MAX_ENTRIES", 10),
		CacheTTL:           envDuration("OASRESOLVE_CACHE_TTL", 5*time.Minute),
		CacheSweepInterval: envDuration("OASRESOLVE_CACHE_SWEEP_INTERVAL", 60*time.Second),
		LoadTimeout:        envDuration("OASRESOLVE_LOAD_TIMEOUT", 30*time.Second),
		AllowPrivateIPs:    envBool("OASRESOLVE_ALLOW_PRIVATE_IPS", false),
		MaxContentBytes:    envInt64("OASRESOLVE_MAX_CONTENT_BYTES", 10*1024*1024),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
