package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// App
	Env string // dev / staging / prod
	// HTTP
	HTTPAddr         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Auth / Security
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration
	BcryptCost     int

	// Two-factor
	TOTPIssuer string
	// Number of 30s steps accepted either side of the current one.
	TOTPWindow      int
	BackupCodeCount int
	// When true, disabling 2FA while it is enabled requires a valid TOTP or
	// backup code; the legacy behavior (token optional) is the default.
	StrictTwoFactorDisable bool

	// Infrastructure
	DBAddr  string
	DBDebug bool
	// Optional; empty disables the TOTP replay guard.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Optional; empty disables security event publishing.
	RabbitURL string
}

// Load reads configuration from the environment. A .env file, if present, is
// loaded first; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional
		log.Println("config: no .env file, using environment")
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	cfg.DBAddr = os.Getenv("DB_ADDR")
	if cfg.DBAddr == "" {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}
	cfg.DBDebug = getEnv("DB_DEBUG", "") == "true"

	cfg.JWTIssuer = getEnv("JWT_ISSUER", "taskapp-auth")

	ttl, err := getDuration("ACCESS_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.AccessTokenTTL = ttl

	cost, err := getInt("BCRYPT_COST", 0) // 0 = library default
	if err != nil {
		return nil, err
	}
	cfg.BcryptCost = cost

	cfg.TOTPIssuer = getEnv("TOTP_ISSUER", "TaskApp")

	window, err := getInt("TOTP_WINDOW", 2)
	if err != nil {
		return nil, err
	}
	if window < 0 {
		return nil, fmt.Errorf("TOTP_WINDOW must be >= 0, got %d", window)
	}
	cfg.TOTPWindow = window

	count, err := getInt("BACKUP_CODE_COUNT", 8)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, fmt.Errorf("BACKUP_CODE_COUNT must be > 0, got %d", count)
	}
	cfg.BackupCodeCount = count

	cfg.StrictTwoFactorDisable = getEnv("TWO_FACTOR_STRICT_DISABLE", "") == "true"

	// Optional backing services. The service degrades gracefully without
	// them, so absence is not an error.
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	db, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.RedisDB = db

	cfg.RabbitURL = os.Getenv("RABBIT_URL")

	rt, err := getDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPReadTimeout = rt

	wt, err := getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPWriteTimeout = wt

	it, err := getDuration("HTTP_IDLE_TIMEOUT", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.HTTPIdleTimeout = it

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q: %w", key, v, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}
