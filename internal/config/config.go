package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverSQLite = "sqlite"
	StoreDriverMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout applied by the router

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Record store
	StoreDriver  string // "sqlite" | "memory" ; empty => store unavailable
	DatabasePath string // sqlite file path ; empty with driver sqlite => store unavailable

	// Identity provider
	JWTSecret string // HS256 shared secret of the identity provider
	JWTIssuer string // expected "iss" claim, empty => not checked

	// Catalog seeding (optional)
	CatalogFile   string // path to a companions catalog yaml, empty => no seeding
	CatalogAuthor string // author id stamped on seeded companions

	// Redis view cache (optional, empty addr => invalidation is a no-op)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts
	ViewCacheTTL        time.Duration // lifetime of a cached dashboard view

	// Access restrictions
	AllowedHosts     []string // optional, Host headers accepted on /api
	AllowedCIDRS     []string // optional, restrict readyz/infra to specific IPs
	TrustProxy       bool     // true => trust X-Forwarded-For headers
	RateLimitBurst   int      // mutations allowed in a burst per client IP
	RateLimitPerMin  int      // mutation tokens refilled per minute per client IP
	RateLimitEntries int      // max tracked client IPs before sweeping
}

// LoadEnvFile loads variables from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("No %s file found, relying on environment variables", path)
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("CONVERSO_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("CONVERSO_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("CONVERSO_REQUEST_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("CONVERSO_LOG_LEVEL", "info"),
		PrettyLog: mustBool("CONVERSO_PRETTY_LOG", true),

		// Record store
		StoreDriver:  strings.ToLower(getenv("CONVERSO_STORE_DRIVER", StoreDriverSQLite)),
		DatabasePath: getenv("CONVERSO_DATABASE_PATH", ""),

		// Identity provider
		JWTSecret: requireEnv("CONVERSO_JWT_SECRET"),
		JWTIssuer: getenv("CONVERSO_JWT_ISSUER", ""),

		// Catalog
		CatalogFile:   getenv("CONVERSO_CATALOG_FILE", ""),
		CatalogAuthor: getenv("CONVERSO_CATALOG_AUTHOR", "converso"),

		// Redis settings
		RedisAddr:           getenv("CONVERSO_REDIS_ADDR", ""),
		RedisUser:           getenv("CONVERSO_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("CONVERSO_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("CONVERSO_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),
		ViewCacheTTL:        mustDuration("CONVERSO_VIEW_CACHE_TTL", 10*time.Minute),

		// Access restrictions
		AllowedHosts:     splitAndTrim(getenv("CONVERSO_ALLOWED_HOSTS", "")),
		AllowedCIDRS:     parseAllowedIPs(getenv("CONVERSO_ALLOWED_CIDRS", "")),
		TrustProxy:       mustBool("CONVERSO_TRUST_PROXY", false),
		RateLimitBurst:   getenvInt("CONVERSO_RATE_LIMIT_BURST", 20),
		RateLimitPerMin:  getenvInt("CONVERSO_RATE_LIMIT_PER_MIN", 60),
		RateLimitEntries: getenvInt("CONVERSO_RATE_LIMIT_ENTRIES", 10000),
	}

	switch cfg.StoreDriver {
	case StoreDriverSQLite, StoreDriverMemory, "":
	default:
		panic(fmt.Sprintf("❌ FATAL: unknown CONVERSO_STORE_DRIVER %q (want sqlite or memory)", cfg.StoreDriver))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.JWTSecret = "***REDACTED***"
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// StoreEnabled reports whether the configuration describes a reachable record store.
func (c *Config) StoreEnabled() bool {
	switch c.StoreDriver {
	case StoreDriverMemory:
		return true
	case StoreDriverSQLite:
		return c.DatabasePath != ""
	default:
		return false
	}
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
