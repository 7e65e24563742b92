package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Store           string
	Seed            int
	LogLevel        string
	LogFormat       string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	CacheTTL        time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	seed, err := Int("KNIGHTS_SEED", 0)
	if err != nil {
		return Server{}, err
	}
	requestTimeout, err := Duration("KNIGHTS_REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return Server{}, err
	}
	shutdownTimeout, err := Duration("KNIGHTS_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Server{}, err
	}
	cacheTTL, err := Duration("KNIGHTS_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return Server{}, err
	}

	cfg := Server{
		Addr:            String("KNIGHTS_ADDR", ":8080"),
		Store:           strings.ToLower(String("KNIGHTS_STORE", StoreMemory)),
		Seed:            seed,
		LogLevel:        String("LOG_LEVEL", "info"),
		LogFormat:       String("LOG_FORMAT", "json"),
		RequestTimeout:  requestTimeout,
		ShutdownTimeout: shutdownTimeout,
		CacheTTL:        cacheTTL,
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (c Server) Validate() error {
	if c.Addr == "" {
		return errors.New("KNIGHTS_ADDR is required")
	}
	switch c.Store {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("KNIGHTS_STORE must be %q or %q, got %q", StoreMemory, StorePostgres, c.Store)
	}
	if c.Seed < 0 {
		return errors.New("KNIGHTS_SEED must be >= 0")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("KNIGHTS_REQUEST_TIMEOUT must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("KNIGHTS_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.CacheTTL <= 0 {
		return errors.New("KNIGHTS_CACHE_TTL must be positive")
	}
	return nil
}

func String(key string, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func Duration(key string, def time.Duration) (time.Duration, error) {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("parse %s: %w", key, err)
		}
		return d, nil
	}
	return def, nil
}

func Bool(key string, def bool) (bool, error) {
	if v, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("parse %s: %w", key, err)
		}
		return b, nil
	}
	return def, nil
}

func Int(key string, def int) (int, error) {
	if v, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("parse %s: %w", key, err)
		}
		return i, nil
	}
	return def, nil
}
