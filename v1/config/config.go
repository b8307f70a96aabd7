// Package config loads the configuration of a traced HTTP service.
//
// Values are layered in this order, later layers winning:
//
//  1. Default()
//  2. an optional YAML file
//  3. environment variables named by the envconfig tags of each section
//
// Only keys present in the file and variables present in the environment
// override earlier layers.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/Aleph-Alpha/httptracing/v1/httptracing"
	"github.com/Aleph-Alpha/httptracing/v1/logger"
	"github.com/Aleph-Alpha/httptracing/v1/metrics"
	"github.com/Aleph-Alpha/httptracing/v1/pipeline"
	"github.com/Aleph-Alpha/httptracing/v1/tracer"
)

// ErrInvalidConfig is returned when the loaded configuration is unusable.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig       `yaml:"server"`
	Logger      logger.Config      `yaml:"logger"`
	Tracer      tracer.Config      `yaml:"tracer"`
	Metrics     metrics.Config     `yaml:"metrics"`
	Pipeline    pipeline.Config    `yaml:"pipeline"`
	HTTPTracing httptracing.Config `yaml:"httptracing"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address         string        `yaml:"address" envconfig:"SERVER_ADDRESS"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SERVER_SHUTDOWN_TIMEOUT"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Logger: logger.Config{
			Level: logger.Info,
		},
		Tracer: tracer.Config{
			AppEnv: tracer.DefaultAppEnv,
		},
		Metrics: metrics.Config{
			Address:                 metrics.DefaultMetricsAddress,
			EnableDefaultCollectors: true,
		},
		Pipeline: pipeline.Config{
			RequestIDHeader: pipeline.DefaultRequestIDHeader,
		},
		HTTPTracing: httptracing.Config{
			Component: httptracing.DefaultComponent,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path and
// the environment. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first unusable value.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("%w: server.address is empty", ErrInvalidConfig)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: server.shutdown_timeout must be positive", ErrInvalidConfig)
	}
	switch c.Logger.Level {
	case logger.Debug, logger.Info, logger.Warning, logger.Error:
	default:
		return fmt.Errorf("%w: unknown logger.level %q", ErrInvalidConfig, c.Logger.Level)
	}
	if c.Tracer.EnableExport && c.Tracer.ServiceName == "" {
		return fmt.Errorf("%w: tracer.service_name is required when export is enabled", ErrInvalidConfig)
	}
	return nil
}
