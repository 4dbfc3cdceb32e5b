package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"

	"github.com/kdduha/regression-plot/internal/render"
)

type Config struct {
	Server      ServerConfig
	Render      RenderConfig
	RedisConfig RedisConfig
	Log         LogConfig
	CacheEnable bool `env:"CACHE_ENABLE" envDefault:"false"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR" envDefault:"redis:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"REDIS_TTL" envDefault:"10m"`
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	Route           string        `env:"SERVER_ROUTE" envDefault:"/regression"`
	Timeout         time.Duration `env:"SERVER_TIMEOUT" envDefault:"2m"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ThrottleLimit   int           `env:"SERVER_THROTTLE_LIMIT" envDefault:"50"`
	MaxBodyBytes    int64         `env:"SERVER_MAX_BODY_BYTES" envDefault:"10485760"`
}

type RenderConfig struct {
	Format    render.Format `env:"RENDER_FORMAT" envDefault:"html"`
	PlotlyURL string        `env:"RENDER_PLOTLY_URL" envDefault:"https://cdn.plot.ly/plotly-3.0.1.min.js"`
	GridSize  int           `env:"RENDER_GRID_SIZE" envDefault:"20"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

var reservedRoutes = []string{"/fit", "/health", "/metrics"}

func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if _, err := render.ParseFormat(string(c.Render.Format)); err != nil {
		errs = append(errs, err)
	}
	if c.Render.GridSize < 2 {
		errs = append(errs, fmt.Errorf("RENDER_GRID_SIZE must be at least 2, got %d", c.Render.GridSize))
	}
	if !strings.HasPrefix(c.Server.Route, "/") {
		errs = append(errs, fmt.Errorf("SERVER_ROUTE must start with '/', got %q", c.Server.Route))
	}
	if slices.Contains(reservedRoutes, c.Server.Route) {
		errs = append(errs, fmt.Errorf("SERVER_ROUTE %q collides with a built-in endpoint", c.Server.Route))
	}
	if c.Server.ThrottleLimit <= 0 {
		errs = append(errs, fmt.Errorf("SERVER_THROTTLE_LIMIT must be positive, got %d", c.Server.ThrottleLimit))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("SERVER_MAX_BODY_BYTES must be positive, got %d", c.Server.MaxBodyBytes))
	}
	if c.Server.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("SERVER_TIMEOUT must be positive, got %s", c.Server.Timeout))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
