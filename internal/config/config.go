// Package config holds the adapter's file-loadable configuration.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/treefdw/treefdw/internal/host"
)

// Config is the TOML-tagged configuration surface. Zero cost values
// fall back to the host defaults on conversion.
type Config struct {
	// ShardsPath is the directory holding shard manifests; empty defers
	// to the SHARDS_PATH environment variable.
	ShardsPath string `toml:"shardsPath"`

	LogLevel string `toml:"logLevel"`

	BlockSize    int     `toml:"blockSize"`
	SeqPageCost  float64 `toml:"seqPageCost"`
	CPUTupleCost float64 `toml:"cpuTupleCost"`
}

// Default returns the stock configuration.
func Default() Config {
	params := host.DefaultCostParams()
	return Config{
		LogLevel:     "info",
		BlockSize:    params.BlockSize,
		SeqPageCost:  float64(params.SeqPageCost),
		CPUTupleCost: float64(params.CPUTupleCost),
	}
}

// Load reads a TOML configuration file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// CostParams converts the configured cost constants for the planner,
// substituting defaults for unset values.
func (c Config) CostParams() host.CostParams {
	params := host.DefaultCostParams()
	if c.BlockSize > 0 {
		params.BlockSize = c.BlockSize
	}
	if c.SeqPageCost > 0 {
		params.SeqPageCost = host.Cost(c.SeqPageCost)
	}
	if c.CPUTupleCost > 0 {
		params.CPUTupleCost = host.Cost(c.CPUTupleCost)
	}
	return params
}
