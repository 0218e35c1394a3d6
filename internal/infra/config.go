package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Trading modes.
const (
	ModePaper   = "PAPER"   // in-memory simulated exchange
	ModeTestnet = "TESTNET" // exchange sandbox with simulated funds
	ModeReal    = "REAL"    // production, requires the safety latch
)

// Config holds everything the application needs. Sensitive values can
// be overridden through environment variables after loading.
type Config struct {
	App struct {
		Name string `yaml:"name"`
	} `yaml:"app"`

	Trading struct {
		Mode string `yaml:"mode"`
	} `yaml:"trading"`

	API struct {
		Binance struct {
			APIKey     string `yaml:"api_key"`
			APISecret  string `yaml:"api_secret"`
			RecvWindow int64  `yaml:"recv_window"`
		} `yaml:"binance"`
	} `yaml:"api"`

	Retry struct {
		MaxAttempts  int `yaml:"max_attempts"`
		BaseDelaySec int `yaml:"base_delay_sec"`
	} `yaml:"retry"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file is given:
// testnet trading with the stock retry policy.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "binance-bot"
	cfg.Trading.Mode = ModeTestnet
	cfg.API.Binance.RecvWindow = 5000
	cfg.Retry.MaxAttempts = 3
	cfg.Retry.BaseDelaySec = 2
	cfg.Logging.Level = "INFO"
	overrideWithEnv(cfg)
	return cfg
}

// LoadConfig reads and parses the yaml config file, applies
// environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// overrideWithEnv lets credentials live outside the config file.
func overrideWithEnv(cfg *Config) {
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.API.Binance.APIKey = v
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		cfg.API.Binance.APISecret = v
	}
	if v := os.Getenv("TRADING_MODE"); v != "" {
		cfg.Trading.Mode = v
	}
}

// Validate fails fast on configurations that cannot work.
func (c *Config) Validate() error {
	switch c.Trading.Mode {
	case ModePaper, ModeTestnet, ModeReal:
	default:
		return fmt.Errorf("unknown trading mode: %s", c.Trading.Mode)
	}

	if c.Trading.Mode != ModePaper {
		if c.API.Binance.APIKey == "" || c.API.Binance.APISecret == "" {
			return fmt.Errorf("BINANCE_API_KEY and BINANCE_API_SECRET environment variables are required")
		}
	}

	// Real trading requires an explicit latch so a config typo can
	// never reach production money.
	if c.Trading.Mode == ModeReal && os.Getenv("CONFIRM_REAL_MONEY") != "true" {
		return fmt.Errorf("SAFETY_GUARD: real trading requires 'CONFIRM_REAL_MONEY=true' environment variable")
	}

	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry.max_attempts must be positive")
	}
	if c.Retry.BaseDelaySec <= 0 {
		return fmt.Errorf("retry.base_delay_sec must be positive")
	}

	return nil
}
