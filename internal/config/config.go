package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/habinote/habinote-go/internal/crypto"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

type Config struct {
	Port            string
	Env             string
	DatabaseDSN     string
	DBMigrate       bool
	JWTSecret       string
	PasswordHasher  string
	BcryptCost      int
	CORSOrigin      string
	LogLevel        slog.Level
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads the configuration from the environment. Unparseable values are
// reported as errors rather than replaced by defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		PasswordHasher: strings.ToLower(getEnv("PASSWORD_HASHER", crypto.AlgorithmBcrypt)),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		LogFormat:      strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	var err error
	if cfg.DBMigrate, err = getBool("DB_MIGRATE", false); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", crypto.DefaultBcryptCost); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	switch cfg.PasswordHasher {
	case crypto.AlgorithmBcrypt, crypto.AlgorithmArgon2id:
	default:
		return Config{}, fmt.Errorf("PASSWORD_HASHER: unknown algorithm %q", cfg.PasswordHasher)
	}
	if err := crypto.ValidateBcryptCost(cfg.BcryptCost); err != nil {
		return Config{}, fmt.Errorf("BCRYPT_COST: %w", err)
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return Config{}, fmt.Errorf("LOG_FORMAT: unknown format %q", cfg.LogFormat)
	}

	cfg.DatabaseDSN = os.Getenv("DATABASE_DSN")
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = buildDSN()
	}

	return cfg, nil
}

func buildDSN() string {
	mc := mysql.NewConfig()
	mc.User = getEnv("DB_USER", "root")
	mc.Passwd = os.Getenv("DB_PASSWORD")
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(getEnv("DB_HOST", "127.0.0.1"), getEnv("DB_PORT", "3306"))
	mc.DBName = getEnv("DB_NAME", "habinote")
	mc.ParseTime = true
	mc.Loc = time.UTC
	return mc.FormatDSN()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
