package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSymbol     = "BCHBTC"
	DefaultSellPrice  = 0.0
	DefaultBuyPrice   = 0.0
	DefaultPriceVar   = 0.1
	DefaultBaseAmount = 1.0
	DefaultServer     = "https://kkex.com"
)

// Config holds the full bot configuration. Loaded once at startup and
// immutable for the process lifetime. Credentials come from the environment
// (KKEX_API_KEY / KKEX_API_SECRET) unless set in the config file.
type Config struct {
	ApiKey    string `yaml:"apiKey" json:"apiKey"`
	ApiSecret string `yaml:"apiSecret" json:"apiSecret"`

	Symbol        string  `yaml:"symbol" json:"symbol"`
	BaseSellPrice float64 `yaml:"baseSellPrice" json:"baseSellPrice"`
	BaseBuyPrice  float64 `yaml:"baseBuyPrice" json:"baseBuyPrice"`
	PriceVar      float64 `yaml:"priceVar" json:"priceVar"`
	BaseAmount    float64 `yaml:"baseAmount" json:"baseAmount"`
	Server        string  `yaml:"server" json:"server"`

	// Diagnostics output; empty values disable the journal / CSV dump.
	DBPath      string `yaml:"dbPath" json:"dbPath"`
	MetricsPath string `yaml:"metricsPath" json:"metricsPath"`
}

// fileConfig mirrors Config for YAML decoding. PriceVar and BaseAmount are
// pointers so an explicit zero in the file is distinguishable from an
// absent key.
type fileConfig struct {
	ApiKey        string   `yaml:"apiKey"`
	ApiSecret     string   `yaml:"apiSecret"`
	Symbol        string   `yaml:"symbol"`
	BaseSellPrice float64  `yaml:"baseSellPrice"`
	BaseBuyPrice  float64  `yaml:"baseBuyPrice"`
	PriceVar      *float64 `yaml:"priceVar"`
	BaseAmount    *float64 `yaml:"baseAmount"`
	Server        string   `yaml:"server"`
	DBPath        string   `yaml:"dbPath"`
	MetricsPath   string   `yaml:"metricsPath"`
}

// LoadFile reads a YAML config file into a Config with defaults applied.
// Unset numeric keys take the documented defaults; explicit zeros are kept,
// since zero is a valid variation fraction and base amount.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	raw := &fileConfig{}
	if err := yaml.Unmarshal(data, raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg := &Config{
		ApiKey:        raw.ApiKey,
		ApiSecret:     raw.ApiSecret,
		Symbol:        raw.Symbol,
		BaseSellPrice: raw.BaseSellPrice,
		BaseBuyPrice:  raw.BaseBuyPrice,
		PriceVar:      DefaultPriceVar,
		BaseAmount:    DefaultBaseAmount,
		Server:        raw.Server,
		DBPath:        raw.DBPath,
		MetricsPath:   raw.MetricsPath,
	}
	if raw.PriceVar != nil {
		cfg.PriceVar = *raw.PriceVar
	}
	if raw.BaseAmount != nil {
		cfg.BaseAmount = *raw.BaseAmount
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills unset string fields and pulls missing credentials
// from the environment. Numeric fields are left untouched: zero is a valid
// variation fraction and base amount, so their defaults are applied only
// where unset is distinguishable from zero (flag definitions, LoadFile).
func (c *Config) ApplyDefaults() {
	if c.Symbol == "" {
		c.Symbol = DefaultSymbol
	}
	if c.Server == "" {
		c.Server = DefaultServer
	}
	if c.ApiKey == "" {
		c.ApiKey = os.Getenv("KKEX_API_KEY")
	}
	if c.ApiSecret == "" {
		c.ApiSecret = os.Getenv("KKEX_API_SECRET")
	}
}

// Validate checks the configuration before the bot starts
func (c *Config) Validate() error {
	if c.ApiKey == "" || c.ApiSecret == "" {
		return fmt.Errorf("api key and secret must be set (flags, config file or KKEX_API_KEY/KKEX_API_SECRET)")
	}
	if c.Symbol == "" {
		return fmt.Errorf("symbol must not be empty")
	}
	if c.PriceVar >= 1 {
		return fmt.Errorf("priceVar must be < 1, got %.4f", c.PriceVar)
	}
	if c.PriceVar < 0 {
		return fmt.Errorf("priceVar must not be negative, got %.4f", c.PriceVar)
	}
	if c.BaseAmount < 0 {
		return fmt.Errorf("baseAmount must not be negative, got %.4f", c.BaseAmount)
	}
	if c.Server == "" {
		return fmt.Errorf("server must not be empty")
	}
	return nil
}
