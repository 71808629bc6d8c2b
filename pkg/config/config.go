package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"SectorPulse/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSourceURL is the public job postings by sector series.
const DefaultSourceURL = "https://raw.githubusercontent.com/hiring-lab/job_postings_tracker/master/US/job_postings_by_sector_US.csv"

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8501" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"1s"`
		APIRate         float64       `yaml:"api_rate" default:"20" validate:"gt=0"`
		APIBurst        int           `yaml:"api_burst" default:"40" validate:"gte=1"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Source struct {
		URL       string        `yaml:"url" validate:"required,url"`
		Timeout   time.Duration `yaml:"timeout" default:"30s"`
		Preload   bool          `yaml:"preload" default:"true"`
		UserAgent string        `yaml:"user_agent" default:"sectorpulse/1.0"`
	} `yaml:"source"`
	Volatility struct {
		Window       int    `yaml:"window" default:"30" validate:"gte=2"`
		RankSize     int    `yaml:"rank_size" default:"10" validate:"gte=1"`
		RollingScope string `yaml:"rolling_scope" default:"history" validate:"oneof=history window"`
	} `yaml:"volatility"`
	Session struct {
		EventsPerSecond float64       `yaml:"events_per_second" default:"20" validate:"gt=0"`
		Burst           int           `yaml:"burst" default:"10" validate:"gte=1"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"session"`
	Logging struct {
		Level      string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format     string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output     string `yaml:"output" default:"stdout"`
		MaxSizeMB  int    `yaml:"max_size_mb" default:"100"`
		MaxAgeDays int    `yaml:"max_age_days" default:"7"`
		Compress   bool   `yaml:"compress" default:"true"`
	} `yaml:"logging"`
}

var validate = validator.New()

// Default returns a configuration populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Defaults go in first so explicit zero values (preload: false) survive.
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if c.Source.URL == "" {
		c.Source.URL = DefaultSourceURL
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML (or defaults when path is empty) and
// overrides with environment variables, reading a .env file first if present.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var (
		c   *Config
		err error
	)
	if path == "" {
		c, err = Default()
	} else {
		c, err = Load(path)
	}
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SECTORPULSE_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("SECTORPULSE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SECTORPULSE_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("SECTORPULSE_SOURCE_URL"); v != "" {
		c.Source.URL = v
	}
	if v := os.Getenv("SECTORPULSE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	c.Source.Preload = util.ParseBoolDefault(os.Getenv("SECTORPULSE_PRELOAD"), c.Source.Preload)
	c.Metrics.Enabled = util.ParseBoolDefault(os.Getenv("SECTORPULSE_METRICS"), c.Metrics.Enabled)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

func (c *Config) applyDefaults() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("config defaults: %w", err)
	}
	c.Source.URL = DefaultSourceURL
	return nil
}
