package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	defaultDatabase = "rental_store"
)

var (
	ErrMissingMongoURI   = errors.New("MONGODB_URI is not set")
	ErrMissingJWTSecret  = errors.New("JWT_SECRET is not set")
	ErrInvalidBcryptCost = fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
)

type Config struct {
	Env  string
	Port string

	MongoURI            string
	MongoDatabase       string
	MongoConnectTimeout time.Duration

	JWTSecret []byte
	JWTExpire time.Duration

	BcryptCost  int
	CORSOrigins []string

	// EnvFileLoaded is set when a .env file was read.
	EnvFileLoaded bool
}

// IsProduction reports whether the process runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// IsDevelopment reports whether internal error details may be shown to
// clients.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Load reads the configuration from the environment. Unless the process
// environment already says production, a .env file in the working directory
// is loaded first; it never overrides variables that are already set.
func Load() (*Config, error) {
	loaded := false
	if appEnv() != EnvProduction {
		loaded = godotenv.Load() == nil
	}

	cfg := &Config{
		Env:           appEnv(),
		EnvFileLoaded: loaded,
		Port:          getEnv("PORT", "5000"),
		MongoURI:      getEnv("MONGODB_URI", os.Getenv("MONGO_URI")),
		BcryptCost:    getEnvAsInt("BCRYPT_COST", 12),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
	}

	if cfg.MongoURI == "" {
		return nil, ErrMissingMongoURI
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, ErrMissingJWTSecret
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, ErrInvalidBcryptCost
	}

	cfg.MongoDatabase = os.Getenv("MONGO_DATABASE")
	if cfg.MongoDatabase == "" {
		cs, err := connstring.ParseAndValidate(cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("parse MONGODB_URI: %w", err)
		}
		cfg.MongoDatabase = cs.Database
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = defaultDatabase
	}

	var err error
	if cfg.JWTExpire, err = ParseTTL(getEnv("JWT_EXPIRE", "7d")); err != nil {
		return nil, fmt.Errorf("JWT_EXPIRE: %w", err)
	}
	if cfg.MongoConnectTimeout, err = time.ParseDuration(getEnv("MONGO_CONNECT_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("MONGO_CONNECT_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// ParseTTL accepts a Go duration ("168h"), a day count ("7d") or a bare
// number of seconds ("3600").
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty duration")
	}

	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	if secs, err := strconv.Atoi(s); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(secs) * time.Second, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

func appEnv() string {
	return getEnv("APP_ENV", getEnv("NODE_ENV", EnvDevelopment))
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
