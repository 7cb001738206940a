package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/lazypower/widgetry/internal/calc"
	"github.com/lazypower/widgetry/internal/gallery"
	"github.com/lazypower/widgetry/internal/player"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds all widgetry configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Store      StoreConfig      `yaml:"store"`
	Log        LogConfig        `yaml:"log"`
	Calculator CalculatorConfig `yaml:"calculator"`
	Gallery    GalleryConfig    `yaml:"gallery"`
	Player     PlayerConfig     `yaml:"player"`
}

type ServerConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type StoreConfig struct {
	Backend       string `yaml:"backend"` // "sqlite", "redis", "memory"
	Path          string `yaml:"path"`    // sqlite file, empty for ~/.widgetry/widgetry.db
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	Prefix        string `yaml:"prefix"` // key namespace for redis
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type CalculatorConfig struct {
	HistoryCap int `yaml:"history_cap"`
}

type GalleryConfig struct {
	Images []gallery.Image `yaml:"images"` // empty for the built-in catalogue
}

type PlayerConfig struct {
	Tracks []player.Track `yaml:"tracks"` // empty for the built-in playlist
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37780,
		},
		Store: StoreConfig{
			Backend:   BackendSQLite,
			RedisAddr: "127.0.0.1:6379",
			Prefix:    "widgetry:",
		},
		Log: LogConfig{
			Level: "info",
		},
		Calculator: CalculatorConfig{
			HistoryCap: calc.DefaultHistoryCap,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is
// not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from WIDGETRY_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("WIDGETRY_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("WIDGETRY_DB"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("WIDGETRY_REDIS_ADDR"); v != "" {
		c.Store.RedisAddr = v
	}
	if v := os.Getenv("WIDGETRY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("WIDGETRY_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WIDGETRY_PORT: %w", err)
		}
		c.Server.Port = port
	}
	return c.Validate()
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	if c.Calculator.HistoryCap < 1 {
		return fmt.Errorf("calculator history_cap must be positive, got %d", c.Calculator.HistoryCap)
	}
	return nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
