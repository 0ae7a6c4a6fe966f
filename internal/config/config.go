package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the picks viewers.
type Config struct {
	API     API     `yaml:"api"`
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
	Display Display `yaml:"display"`
}

// API points at the picks scoring service.
type API struct {
	BaseURL    string  `yaml:"base_url"`
	TimeoutSec int     `yaml:"timeout"`
	RatePerSec float64 `yaml:"rate_per_sec"`
}

// Server holds the web viewer's listener configuration.
type Server struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Display controls how dates are resolved for the user.
type Display struct {
	Timezone string `yaml:"timezone"`
}

// Defaults.
const (
	DefaultBaseURL    = "http://localhost:8000"
	DefaultTimeoutSec = 10
	DefaultRatePerSec = 5
	DefaultPort       = 8080
	DefaultTimezone   = "America/New_York"
)

// Timeout returns the API timeout as a duration.
func (a API) Timeout() time.Duration {
	return time.Duration(a.TimeoutSec) * time.Second
}

// Addr returns the host:port listen address.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, and then applies environment variable overrides and
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

// LoadOrDefault loads path, or starts from defaults when path is empty.
// Environment overrides apply either way.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		cfg := &Config{}
		applyEnvOverrides(cfg)
		applyDefaults(cfg)
		return cfg, nil
	}
	return Load(path)
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PICKS_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("PICKS_API_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.API.TimeoutSec = n
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("PICKS_TZ"); v != "" {
		cfg.Display.Timezone = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	if cfg.API.TimeoutSec <= 0 {
		cfg.API.TimeoutSec = DefaultTimeoutSec
	}
	if cfg.API.RatePerSec <= 0 {
		cfg.API.RatePerSec = DefaultRatePerSec
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Display.Timezone == "" {
		cfg.Display.Timezone = DefaultTimezone
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
