package config

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/guimove/loadoutfit/internal/catalog"
	"github.com/guimove/loadoutfit/internal/optimizer"
)

// Config is the top-level configuration for loadoutfit.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog" mapstructure:"catalog"`
	Optimizer OptimizerConfig `yaml:"optimizer" mapstructure:"optimizer"`
	Benefit   BenefitConfig   `yaml:"benefit" mapstructure:"benefit"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
}

type CatalogConfig struct {
	Path     string        `yaml:"path" mapstructure:"path"`
	URL      string        `yaml:"url" mapstructure:"url"` // takes precedence over path
	CacheDir string        `yaml:"cache_dir" mapstructure:"cache_dir"`
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

type OptimizerConfig struct {
	SoftLimit     float64 `yaml:"soft_limit" mapstructure:"soft_limit"`
	HardLimit     float64 `yaml:"hard_limit" mapstructure:"hard_limit"`
	FrontierScope string  `yaml:"frontier_scope" mapstructure:"frontier_scope"`
	TopN          int     `yaml:"top_n" mapstructure:"top_n"`
}

type BenefitConfig struct {
	Model     string  `yaml:"model" mapstructure:"model"` // empty = use the catalog's model
	Uptime    float64 `yaml:"uptime" mapstructure:"uptime"`
	DamageRig string  `yaml:"damage_rig" mapstructure:"damage_rig"`
	RateRig   string  `yaml:"rof_rig" mapstructure:"rof_rig"`
}

type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	MaxConcurrent  int           `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Catalog: CatalogConfig{
			Path:     "catalog.yaml",
			CacheTTL: 15 * time.Minute,
		},
		Optimizer: OptimizerConfig{
			SoftLimit:     optimizer.DefaultSoftLimit,
			HardLimit:     optimizer.DefaultHardLimit,
			FrontierScope: string(optimizer.ScopeFeasible),
			TopN:          5,
		},
		Benefit: BenefitConfig{
			Uptime: 1.0,
		},
		Output: OutputConfig{
			Format: "table",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxConcurrent:  2,
			RequestTimeout: 2 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Validate checks the config for consistency.
func (c *Config) Validate() error {
	if c.Optimizer.SoftLimit < 0 || c.Optimizer.HardLimit < 0 {
		return fmt.Errorf("combination limits must be non-negative, got soft=%v hard=%v",
			c.Optimizer.SoftLimit, c.Optimizer.HardLimit)
	}
	if c.Optimizer.HardLimit > 0 && c.Optimizer.SoftLimit > c.Optimizer.HardLimit {
		return fmt.Errorf("soft_limit %v exceeds hard_limit %v", c.Optimizer.SoftLimit, c.Optimizer.HardLimit)
	}
	validScopes := map[string]bool{string(optimizer.ScopeFeasible): true, string(optimizer.ScopeAll): true}
	if !validScopes[c.Optimizer.FrontierScope] {
		return fmt.Errorf("frontier_scope must be feasible or all, got %q", c.Optimizer.FrontierScope)
	}
	if c.Optimizer.TopN <= 0 {
		c.Optimizer.TopN = 5
	}

	validModels := map[string]bool{"": true, optimizer.ModelStacking: true, optimizer.ModelSetBonus: true}
	if !validModels[c.Benefit.Model] {
		return fmt.Errorf("benefit model must be stacking or set_bonus, got %q", c.Benefit.Model)
	}
	if c.Benefit.Uptime < 0 || c.Benefit.Uptime > 1.0 || math.IsNaN(c.Benefit.Uptime) {
		return fmt.Errorf("uptime must be between 0 and 1.0, got %v", c.Benefit.Uptime)
	}
	if _, err := catalog.DamageRig(c.Benefit.DamageRig); err != nil {
		return fmt.Errorf("damage_rig: %w", err)
	}
	if _, err := catalog.RateRig(c.Benefit.RateRig); err != nil {
		return fmt.Errorf("rof_rig: %w", err)
	}

	validFormats := map[string]bool{"table": true, "json": true, "markdown": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("output format must be table, json, or markdown, got %q", c.Output.Format)
	}

	if c.Server.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be at least 1, got %d", c.Server.MaxConcurrent)
	}
	if c.Catalog.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must be non-negative, got %v", c.Catalog.CacheTTL)
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging level: %w", err)
	}
	validLogFormats := map[string]bool{"json": true, "console": true}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("logging format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// Guard returns the optimizer size guard.
func (c *Config) Guard() optimizer.Guard {
	return optimizer.Guard{Soft: c.Optimizer.SoftLimit, Hard: c.Optimizer.HardLimit}
}

// BenefitModel builds the configured benefit model. fallback is used when
// no model is configured, typically the catalog's own.
func (c *Config) BenefitModel(fallback string) (optimizer.BenefitModel, error) {
	name := c.Benefit.Model
	if name == "" {
		name = fallback
	}
	if name == "" {
		name = optimizer.ModelStacking
	}

	damage, err := catalog.DamageRig(c.Benefit.DamageRig)
	if err != nil {
		return nil, err
	}
	rate, err := catalog.RateRig(c.Benefit.RateRig)
	if err != nil {
		return nil, err
	}
	return optimizer.NewBenefitModel(name, optimizer.ModelOptions{
		Uptime:      c.Benefit.Uptime,
		ExtraDamage: damage,
		ExtraRate:   rate,
	})
}
