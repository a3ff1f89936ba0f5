package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/indredK/history-sub002/internal/datasource"
	"github.com/indredK/history-sub002/internal/fallback"
	"github.com/indredK/history-sub002/internal/retry"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Load reads the .env file specified by HISTORY_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("HISTORY_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

// DataSource returns the baseline data source mode. Defaults to mock.
func DataSource() (datasource.Mode, error) {
	v := os.Getenv("DATA_SOURCE")
	if v == "" {
		return datasource.ModeMock, nil
	}
	return datasource.ParseMode(v)
}

func APIBaseURL() string {
	return strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
}

// APITimeout defaults to 10s.
func APITimeout() time.Duration {
	return durationEnv("API_TIMEOUT", 10*time.Second)
}

// RetryPolicy defaults to a single attempt, which disables retrying.
func RetryPolicy() retry.Policy {
	attempts, err := strconv.Atoi(os.Getenv("API_RETRY_ATTEMPTS"))
	if err != nil || attempts <= 0 {
		attempts = 1
	}
	return retry.Policy{
		Attempts: attempts,
		Delay:    durationEnv("API_RETRY_DELAY", retry.DefaultDelay),
	}
}

// StaticRoot is the directory that holds data/json. Defaults to "public".
func StaticRoot() string {
	p := os.Getenv("STATIC_ROOT")
	if p == "" {
		return "public"
	}
	return p
}

// StaticURL, when set, makes assets load over HTTP instead of from StaticRoot.
func StaticURL() string {
	return os.Getenv("STATIC_URL")
}

// AssetRefreshInterval is how often the asset cache is dropped and reloaded.
// Zero, the default, disables refreshing.
func AssetRefreshInterval() time.Duration {
	return durationEnv("ASSET_REFRESH_INTERVAL", 0)
}

func BasePath() string {
	p := os.Getenv("BASE_PATH")
	if p == "" {
		return "/"
	}
	return p
}

// FallbackConfig builds the fallback manager config from FALLBACK_ENABLED,
// FALLBACK_THRESHOLD and FALLBACK_DURATION over the defaults. Unset values
// keep their default; malformed ones are an error.
func FallbackConfig() (fallback.Config, error) {
	var u fallback.ConfigUpdate
	if s := os.Getenv("FALLBACK_ENABLED"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return fallback.Config{}, fmt.Errorf("invalid FALLBACK_ENABLED %q: %w", s, err)
		}
		u.EnableAutoFallback = &v
	}
	if s := os.Getenv("FALLBACK_THRESHOLD"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return fallback.Config{}, fmt.Errorf("invalid FALLBACK_THRESHOLD %q: %w", s, err)
		}
		u.FallbackThreshold = &v
	}
	if s := os.Getenv("FALLBACK_DURATION"); s != "" {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fallback.Config{}, fmt.Errorf("invalid FALLBACK_DURATION %q: %w", s, err)
		}
		u.FallbackDuration = &v
	}
	return fallback.WithDefaults(u), nil
}

func ServerPort() int {
	return intEnv("SERVER_PORT", 8080)
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// APIPort is the listen port of the upstream history API.
func APIPort() int {
	return intEnv("API_PORT", 8081)
}

func APIAddr() string {
	return fmt.Sprintf(":%d", APIPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func MigrationsPath() string {
	p := os.Getenv("MIGRATIONS_PATH")
	if p == "" {
		return "migrations"
	}
	return p
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// NewLogger builds a production zap logger at LogLevel.
func NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(LogLevel())
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	return cfg.Build()
}

// CORSOrigins is the comma separated CORS_ORIGINS list. Defaults to "*".
func CORSOrigins() []string {
	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// AdminToken guards the fallback control routes. Empty disables the check.
func AdminToken() string {
	return os.Getenv("ADMIN_TOKEN")
}

func intEnv(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func durationEnv(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
