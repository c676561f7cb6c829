package cpi

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/ibexprof/timing/cache"
)

// Config holds the penalties and scenario sets of the CPI model. The
// defaults reproduce the fixed constants of the analyzer.
type Config struct {
	// BaseCPI is the ideal cycles per instruction with no stalls.
	// Default: 1.0.
	BaseCPI float64 `json:"base_cpi"`

	// MemPenalty is the average extra cycles per memory access in the flat
	// model. Default: 2.0.
	MemPenalty float64 `json:"mem_penalty"`

	// BranchPenalty is the extra cycles per branch or jump. Default: 1.5.
	BranchPenalty float64 `json:"branch_penalty"`

	// CacheHitLatency is the cache hit latency in cycles. Default: 1.
	CacheHitLatency float64 `json:"cache_hit_latency"`

	// CacheMissPenalty is the memory miss penalty in cycles. Default: 15.
	CacheMissPenalty float64 `json:"cache_miss_penalty"`

	// HitRates are the cache hit rates swept by the cache-aware model.
	// Default: 0.0, 0.5, 0.8, 0.9, 0.95.
	HitRates []float64 `json:"hit_rates"`

	// MemLatencies are the memory latencies in cycles swept by the what-if
	// study. Default: 1, 2, 3, 5.
	MemLatencies []uint64 `json:"mem_latencies"`

	// RatioEpsilon is added to the store count in the load/store ratio.
	// Default: 1e-9.
	RatioEpsilon float64 `json:"ratio_epsilon"`

	// Cache configures the optional cache replay of traced accesses.
	Cache cache.Config `json:"cache"`
}

// DefaultConfig returns a Config with the analyzer's fixed values.
func DefaultConfig() *Config {
	return &Config{
		BaseCPI:          1.0,
		MemPenalty:       2.0,
		BranchPenalty:    1.5,
		CacheHitLatency:  1,
		CacheMissPenalty: 15,
		HitRates:         []float64{0.0, 0.5, 0.8, 0.9, 0.95},
		MemLatencies:     []uint64{1, 2, 3, 5},
		RatioEpsilon:     1e-9,
		Cache:            cache.DefaultConfig(),
	}
}

// LoadConfig loads a Config from a JSON file. Fields absent from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse model config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize model config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write model config file: %w", err)
	}

	return nil
}

// Validate checks that penalties are non-negative and hit rates lie in
// [0, 1].
func (c *Config) Validate() error {
	if c.BaseCPI < 0 {
		return fmt.Errorf("base_cpi must be >= 0")
	}
	if c.MemPenalty < 0 {
		return fmt.Errorf("mem_penalty must be >= 0")
	}
	if c.BranchPenalty < 0 {
		return fmt.Errorf("branch_penalty must be >= 0")
	}
	if c.CacheHitLatency < 0 {
		return fmt.Errorf("cache_hit_latency must be >= 0")
	}
	if c.CacheMissPenalty < 0 {
		return fmt.Errorf("cache_miss_penalty must be >= 0")
	}
	if c.RatioEpsilon <= 0 {
		return fmt.Errorf("ratio_epsilon must be > 0")
	}
	for _, h := range c.HitRates {
		if h < 0 || h > 1 {
			return fmt.Errorf("hit_rates must be within [0, 1], got %v", h)
		}
	}
	if c.Cache.Enabled {
		if err := c.Cache.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	clone.HitRates = append([]float64(nil), c.HitRates...)
	clone.MemLatencies = append([]uint64(nil), c.MemLatencies...)
	return &clone
}
