// Package config defines all configuration for the trading engine.
// Config is loaded from a YAML file (default: configs/engine.yaml) with
// fields overridable via ULTRA_* environment variables. The live/simulation
// mode switch is the ULTRA_LIVE_MODE environment variable, checked even
// when no config file sets it.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/shreejitverma/trishul-ultra-hft-project/internal/logging"
)

// Config is the top-level configuration. Maps directly to the YAML file.
type Config struct {
	LiveMode  bool            `mapstructure:"live_mode"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Strategy  StrategyConfig  `mapstructure:"strategy"`
	Risk      RiskConfig      `mapstructure:"risk"`
	Hardware  HardwareConfig  `mapstructure:"hardware"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Logging   logging.Config  `mapstructure:"logging"`
	Symbols   []SymbolConfig  `mapstructure:"symbols"`
}

// FeedConfig describes the live multicast source. Ignored in simulation.
type FeedConfig struct {
	Group           string `mapstructure:"group"`
	Port            int    `mapstructure:"port"`
	Interface       string `mapstructure:"interface"`
	ReadBufferBytes int    `mapstructure:"read_buffer_bytes"`
}

// StrategyConfig selects and tunes the quoting model.
//
//   - Model: "reservation" (inventory-adjusted reservation price) or "obi"
//     (order-book-imbalance skew).
//   - Gamma: risk aversion. Higher moves quotes further per share held.
//   - Sigma: volatility estimate feeding the spread floor.
//   - SpreadCapture / SkewFactor: OBI model parameters, fixed-point.
type StrategyConfig struct {
	Model         string  `mapstructure:"model"`
	Symbol        string  `mapstructure:"symbol"`
	Gamma         float64 `mapstructure:"gamma"`
	Sigma         float64 `mapstructure:"sigma"`
	SpreadCapture int64   `mapstructure:"spread_capture"`
	SkewFactor    float64 `mapstructure:"skew_factor"`
}

// RiskConfig sets the hard pre-trade limits.
type RiskConfig struct {
	MaxOrderSize      uint32 `mapstructure:"max_order_size"`
	MaxPositionShares int64  `mapstructure:"max_position_shares"`
	MaxNotional       int64  `mapstructure:"max_notional"`
}

// HardwareConfig controls the offload path.
type HardwareConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// ParamRefreshEvents is how many market events pass between parameter
	// pushes to the device.
	ParamRefreshEvents int `mapstructure:"param_refresh_events"`
}

// TelemetryConfig controls aggregation and the monitoring server.
type TelemetryConfig struct {
	ListenAddr     string   `mapstructure:"listen_addr"`
	PushURL        string   `mapstructure:"push_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SymbolConfig is one instrument in the universe.
type SymbolConfig struct {
	ID           uint32 `mapstructure:"id"`
	Name         string `mapstructure:"name"`
	LotSize      uint32 `mapstructure:"lot_size"`
	TickSize     int64  `mapstructure:"tick_size"`
	MakerFee     string `mapstructure:"maker_fee"`
	TakerFee     string `mapstructure:"taker_fee"`
	PreferHWExec bool   `mapstructure:"prefer_hw_exec"`
}

// Load reads config from a YAML file with ULTRA_* env overrides. A missing
// file is not an error: the defaults describe a self-contained simulation.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("ULTRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// ULTRA_LIVE_MODE selects the live network path; any non-empty value
	// counts, matching how operators toggle it.
	if os.Getenv("ULTRA_LIVE_MODE") != "" {
		cfg.LiveMode = true
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("live_mode", false)
	v.SetDefault("feed.group", "233.54.12.111")
	v.SetDefault("feed.port", 5000)
	v.SetDefault("feed.read_buffer_bytes", 16*1024*1024)
	v.SetDefault("strategy.model", "reservation")
	v.SetDefault("strategy.symbol", "AAPL")
	v.SetDefault("strategy.gamma", 0.1)
	v.SetDefault("strategy.sigma", 2.0)
	v.SetDefault("strategy.spread_capture", 500)
	v.SetDefault("strategy.skew_factor", 200.0)
	v.SetDefault("risk.max_order_size", 1000)
	v.SetDefault("risk.max_position_shares", 10000)
	v.SetDefault("risk.max_notional", 1000000)
	v.SetDefault("hardware.enabled", true)
	v.SetDefault("hardware.param_refresh_events", 100)
	v.SetDefault("telemetry.listen_addr", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("symbols", []map[string]any{{
		"id": 1, "name": "AAPL", "lot_size": 100, "tick_size": 100,
		"maker_fee": "-0.0002", "taker_fee": "0.0003", "prefer_hw_exec": false,
	}})
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	switch c.Strategy.Model {
	case "reservation", "obi":
	default:
		return fmt.Errorf("strategy.model must be reservation or obi, got %q", c.Strategy.Model)
	}
	if c.Strategy.Symbol == "" {
		return fmt.Errorf("strategy.symbol is required")
	}
	if c.Strategy.Gamma <= 0 {
		return fmt.Errorf("strategy.gamma must be > 0")
	}
	if c.Strategy.Sigma <= 0 {
		return fmt.Errorf("strategy.sigma must be > 0")
	}
	if c.Risk.MaxOrderSize == 0 {
		return fmt.Errorf("risk.max_order_size must be > 0")
	}
	if c.Risk.MaxPositionShares <= 0 {
		return fmt.Errorf("risk.max_position_shares must be > 0")
	}
	if c.Risk.MaxNotional <= 0 {
		return fmt.Errorf("risk.max_notional must be > 0")
	}
	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbol must be configured")
	}
	seen := make(map[string]bool, len(c.Symbols))
	strategySymbolKnown := false
	for _, s := range c.Symbols {
		if s.Name == "" {
			return fmt.Errorf("symbol %d has no name", s.ID)
		}
		if len(s.Name) > 8 {
			return fmt.Errorf("symbol %q exceeds the 8-byte tag", s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("symbol %q configured twice", s.Name)
		}
		seen[s.Name] = true
		if s.Name == c.Strategy.Symbol {
			strategySymbolKnown = true
		}
	}
	if !strategySymbolKnown {
		return fmt.Errorf("strategy.symbol %q is not in the symbol universe", c.Strategy.Symbol)
	}
	if c.LiveMode && c.Feed.Group == "" {
		return fmt.Errorf("feed.group is required in live mode")
	}
	return nil
}
