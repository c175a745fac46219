package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenHost      string
	ListenPort      int
	ShutdownTimeout time.Duration
	GinMode         string

	Database Database

	// RelayAddr is the libp2p relay to expose the catalog through. Empty disables P2P.
	RelayAddr string

	AllowOrigins []string
	PageRadius   int

	LogLevel  string
	LogFormat string
}

type Database struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ListenHost, c.ListenPort)
}

func (c *Config) P2PEnabled() bool {
	return c.RelayAddr != ""
}

func Load() *Config {
	return &Config{
		ListenHost:      os.Getenv("LISTEN_HOST"),
		ListenPort:      envInt("LISTEN_PORT", 8081),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		GinMode:         envString("GIN_MODE", "release"),
		Database: Database{
			Driver:       envString("DB_DRIVER", "sqlite"),
			DSN:          envString("DB_DSN", "books.db"),
			MaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 25),
		},
		RelayAddr:    os.Getenv("RELAY_ADDR"),
		AllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{"*"}),
		PageRadius:   envInt("PAGE_RADIUS", 3),
		LogLevel:     envString("LOG_LEVEL", "info"),
		LogFormat:    envString("LOG_FORMAT", "text"),
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if p := os.Getenv(key); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			return v
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if p := os.Getenv(key); p != "" {
		if v, err := time.ParseDuration(p); err == nil {
			return v
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
