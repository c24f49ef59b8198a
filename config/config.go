package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DEFAULT_PORT           string = "5000"
	DEFAULT_DATABASE       string = "tutoring"
	DEFAULT_UPLOADS_DIR    string = "uploads"
	DEFAULT_TOKEN_TTL             = 7 * 24 * time.Hour
	DEFAULT_AUTH_RATE      int    = 5
	DEFAULT_ENVIRONMENT    string = "development"
	DEFAULT_ALLOWED_ORIGIN string = "http://localhost:5173,https://lms-front-end.netlify.app,https://lmsfront.netlify.app,https://resplendent-pie-fe14df.netlify.app"
)

type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	TokenTTL      time.Duration
	UploadsDir    string
	// AllowedOrigins is the comma separated CORS origin list.
	AllowedOrigins string
	RedisAddr      string
	Environment    string
	AuthRateLimit  int

	// EnforceTutorOwnership makes accept/decline verify the caller is the
	// booking's tutor.
	EnforceTutorOwnership bool
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getOr("PORT", DEFAULT_PORT),
		MongoDatabase:  getOr("MONGO_DATABASE", DEFAULT_DATABASE),
		UploadsDir:     getOr("UPLOADS_DIR", DEFAULT_UPLOADS_DIR),
		AllowedOrigins: getOr("ALLOWED_ORIGINS", DEFAULT_ALLOWED_ORIGIN),
		Environment:    getOr("ENV", DEFAULT_ENVIRONMENT),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
	}

	var err error
	if cfg.MongoURI, err = GetSecret("MONGO_URI"); err != nil {
		return nil, err
	}
	if cfg.JWTSecret, err = GetSecret("JWT_SECRET"); err != nil {
		return nil, err
	}

	cfg.TokenTTL = DEFAULT_TOKEN_TTL
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		if cfg.TokenTTL, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", raw, err)
		}
	}

	cfg.AuthRateLimit = DEFAULT_AUTH_RATE
	if raw := os.Getenv("AUTH_RATE_LIMIT"); raw != "" {
		if cfg.AuthRateLimit, err = strconv.Atoi(raw); err != nil || cfg.AuthRateLimit <= 0 {
			return nil, fmt.Errorf("invalid AUTH_RATE_LIMIT %q", raw)
		}
	}

	if raw := os.Getenv("ENFORCE_TUTOR_OWNERSHIP"); raw != "" {
		if cfg.EnforceTutorOwnership, err = strconv.ParseBool(raw); err != nil {
			return nil, fmt.Errorf("invalid ENFORCE_TUTOR_OWNERSHIP %q: %w", raw, err)
		}
	}

	return cfg, nil
}

func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *Config) ListenAddr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func GetSecret(key string) (string, error) {
	val, exist := os.LookupEnv(key)
	if exist && val != "" {
		return val, nil
	}
	return "", fmt.Errorf("no env variable with key %v", key)
}

func getOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
