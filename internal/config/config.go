package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"kanban_api/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	DBPoolMin   int32
	DBPoolMax   int32

	JWTSecret    string
	JWTExpiresIn time.Duration

	AllowedOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limits
	AuthRateLimit   int
	AuthRateWindow  time.Duration
	WriteRateLimit  int
	WriteRateWindow time.Duration

	LogLevel string
	LogJSON  bool
}

// Load reads the environment (and an optional .env file) and exits on
// invalid configuration.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// lookup returns a getenv-style reader with defaults.
func lookup(getenv func(string) string) func(key, def string) string {
	return func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}
}

// DatabaseURL returns DATABASE_URL, or a postgres URL assembled from the
// DB_* variables when it is unset. Tools that only touch the database use it
// without loading the rest of the configuration.
func DatabaseURL(getenv func(string) string) string {
	if dbURL := getenv("DATABASE_URL"); dbURL != "" {
		return dbURL
	}
	env := lookup(getenv)
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(env("DB_USER", "postgres"), getenv("DB_PASSWORD")),
		Host:   env("DB_HOST", "localhost") + ":" + env("DB_PORT", "5432"),
		Path:   "/" + env("DB_NAME", "kanban_db"),
	}
	if mode := getenv("DB_SSLMODE"); mode != "" {
		u.RawQuery = "sslmode=" + mode
	}
	return u.String()
}

// FromEnv builds a Config from a getenv-style lookup.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := lookup(getenv)

	jwtSecret := getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	jwtTTL, err := ParseExpiry(env("JWT_EXPIRES_IN", "7d"))
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRES_IN: %w", err)
	}

	poolMin := positiveInt(getenv("DB_POOL_MIN"), 2)
	poolMax := positiveInt(getenv("DB_POOL_MAX"), 10)
	if poolMin > poolMax {
		return nil, fmt.Errorf("DB_POOL_MIN (%d) exceeds DB_POOL_MAX (%d)", poolMin, poolMax)
	}

	port := getenv("PORT")
	if port == "" {
		port = env("APP_PORT", "3000")
	}

	var origins []string
	for _, o := range strings.Split(env("FRONTEND_URL", "http://localhost:5173"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	redisDB := 0
	if v := getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("REDIS_DB must be a non-negative integer, got %q", v)
		}
		redisDB = n
	}

	return &Config{
		AppPort:         port,
		DatabaseURL:     DatabaseURL(getenv),
		DBPoolMin:       int32(poolMin),
		DBPoolMax:       int32(poolMax),
		JWTSecret:       jwtSecret,
		JWTExpiresIn:    jwtTTL,
		AllowedOrigins:  origins,
		RedisAddr:       getenv("REDIS_ADDR"),
		RedisPassword:   getenv("REDIS_PASSWORD"),
		RedisDB:         redisDB,
		AuthRateLimit:   positiveInt(getenv("AUTH_RATE_LIMIT"), 5),
		AuthRateWindow:  time.Duration(positiveInt(getenv("AUTH_RATE_WINDOW_SECONDS"), 60)) * time.Second,
		WriteRateLimit:  positiveInt(getenv("WRITE_RATE_LIMIT"), 120),
		WriteRateWindow: time.Duration(positiveInt(getenv("WRITE_RATE_WINDOW_SECONDS"), 60)) * time.Second,
		LogLevel:        env("LOG_LEVEL", "info"),
		LogJSON:         getenv("LOG_JSON") == "true",
	}, nil
}

// ParseExpiry accepts "7d", "12h" style values as well as any
// time.ParseDuration input.
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("expiry must be positive, got %q", s)
	}
	return d, nil
}

func positiveInt(v string, def int) int {
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
