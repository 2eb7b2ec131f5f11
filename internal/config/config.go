package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInventoryListen = ":9081"
	DefaultSystemListen    = ":9080"
	DefaultSystemPort      = 9080
	DefaultFetchTimeoutSec = 5
	DefaultMaxRetries      = 3
	DefaultSTUNTimeoutSec  = 3
	DefaultLogLevel        = "info"

	// EnvSystemPort overrides inventory.system_port.
	EnvSystemPort = "SYSTEM_HTTP_PORT"
)

// Config holds settings for both the inventory and the system peer.
type Config struct {
	Inventory *InventoryConfig `yaml:"inventory,omitempty"`
	System    *SystemConfig    `yaml:"system,omitempty"`
	Logging   LoggingConfig    `yaml:"logging"`
}

// InventoryConfig is used by the inventory service.
type InventoryConfig struct {
	Listen string `yaml:"listen"`
	// SystemPort is the port every system peer is contacted on. It is read
	// once at startup.
	SystemPort      int  `yaml:"system_port"`
	FetchTimeoutSec int  `yaml:"fetch_timeout_sec"`
	MaxRetries      *int `yaml:"max_retries,omitempty"`
	RetryDelayMs    int  `yaml:"retry_delay_ms"`
}

// SystemConfig is used by the system peer that reports local properties.
type SystemConfig struct {
	Listen         string   `yaml:"listen"`
	STUNServers    []string `yaml:"stun_servers"`
	STUNTimeoutSec int      `yaml:"stun_timeout_sec"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// FetchTimeout returns the per-call network timeout.
func (c InventoryConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// RetryDelay returns the pause between fetch attempts.
func (c InventoryConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// Retries returns the configured number of retries after the first attempt.
func (c InventoryConfig) Retries() int {
	if c.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *c.MaxRetries
}

// Port returns SystemPort in the form used to build addresses.
func (c InventoryConfig) Port() string {
	return strconv.Itoa(c.SystemPort)
}

// STUNTimeout returns the deadline for one STUN probe.
func (c SystemConfig) STUNTimeout() time.Duration {
	return time.Duration(c.STUNTimeoutSec) * time.Second
}

// Load reads and parses a YAML config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	ApplyDefaults(&cfg)
	return cfg, nil
}

// Save writes a YAML config file to disk.
func Save(path string, cfg Config) error {
	ApplyDefaults(&cfg)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate performs minimal validation for required fields.
func Validate(cfg Config) error {
	if cfg.Inventory == nil && cfg.System == nil {
		return fmt.Errorf("config must contain inventory or system section")
	}
	if inv := cfg.Inventory; inv != nil {
		if inv.Listen == "" {
			return fmt.Errorf("inventory.listen is required")
		}
		if inv.SystemPort < 1 || inv.SystemPort > 65535 {
			return fmt.Errorf("inventory.system_port %d out of range", inv.SystemPort)
		}
		if inv.FetchTimeoutSec < 0 {
			return fmt.Errorf("inventory.fetch_timeout_sec must not be negative")
		}
		if inv.Retries() < 0 {
			return fmt.Errorf("inventory.max_retries must not be negative")
		}
		if inv.RetryDelayMs < 0 {
			return fmt.Errorf("inventory.retry_delay_ms must not be negative")
		}
	}
	if cfg.System != nil && cfg.System.Listen == "" {
		return fmt.Errorf("system.listen is required")
	}
	return nil
}

// ApplyDefaults fills in default values when empty.
func ApplyDefaults(cfg *Config) {
	if cfg.Inventory != nil {
		if cfg.Inventory.Listen == "" {
			cfg.Inventory.Listen = DefaultInventoryListen
		}
		if cfg.Inventory.SystemPort == 0 {
			cfg.Inventory.SystemPort = DefaultSystemPort
		}
		if cfg.Inventory.FetchTimeoutSec == 0 {
			cfg.Inventory.FetchTimeoutSec = DefaultFetchTimeoutSec
		}
		if cfg.Inventory.MaxRetries == nil {
			v := DefaultMaxRetries
			cfg.Inventory.MaxRetries = &v
		}
	}

	if cfg.System != nil {
		if cfg.System.Listen == "" {
			cfg.System.Listen = DefaultSystemListen
		}
		if cfg.System.STUNTimeoutSec == 0 {
			cfg.System.STUNTimeoutSec = DefaultSTUNTimeoutSec
		}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
}

// ApplyEnv overrides settings from the process environment.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if cfg.Inventory == nil {
		return nil
	}
	if v := getenv(EnvSystemPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSystemPort, err)
		}
		cfg.Inventory.SystemPort = port
	}
	return nil
}
