package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	SecretKey     string
	DBDriver      string
	DBPath        string
	DatabaseURL   string
	QuestionsPath string
	PagesDir      string
	Host          string
	Port          int
	LogLevel      string
	CORSOrigins   []string
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// A missing .env is normal outside local dev.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults for
// anything unset.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		SecretKey:     get("SECRET_KEY", "your_very_secret_key"),
		DBDriver:      strings.ToLower(get("DB_DRIVER", DriverSQLite)),
		DBPath:        get("DB_PATH", "scores.db"),
		DatabaseURL:   get("DATABASE_URL", ""),
		QuestionsPath: get("QUESTIONS_PATH", "questions.json"),
		PagesDir:      get("PAGES_DIR", ""),
		Host:          get("HOST", "0.0.0.0"),
		LogLevel:      strings.ToLower(get("LOG_LEVEL", "debug")),
		CORSOrigins:   splitList(get("CORS_ORIGINS", "*")),
	}

	port, err := strconv.Atoi(get("PORT", "5000"))
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("%w: PORT %q", ErrInvalidConfig, getenv("PORT"))
	}
	cfg.Port = port

	switch cfg.DBDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("%w: DATABASE_URL is required when DB_DRIVER=postgres", ErrInvalidConfig)
		}
	default:
		return Config{}, fmt.Errorf("%w: unknown DB_DRIVER %q", ErrInvalidConfig, cfg.DBDriver)
	}

	return cfg, nil
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
