// Package cache replays the memory accesses of a retirement trace through a
// set-associative cache model built on Akita cache components. The replay
// measures an observed hit rate for the cache-aware CPI estimate; it keeps
// tags only, never data.
package cache

import (
	"fmt"

	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds cache replay parameters.
type Config struct {
	// Enabled turns the replay on. Default: false.
	Enabled bool `json:"enabled"`
	// Size in bytes. Default: 8KB.
	Size int `json:"size"`
	// Associativity (number of ways). Default: 2.
	Associativity int `json:"associativity"`
	// BlockSize in bytes (cache line size). Default: 32.
	BlockSize int `json:"block_size"`
}

// DefaultConfig returns the default replay geometry: a small 2-way data
// cache of the size typically paired with an Ibex-class core.
func DefaultConfig() Config {
	return Config{
		Enabled:       false,
		Size:          8 * 1024, // 8KB
		Associativity: 2,        // 2-way
		BlockSize:     32,       // 32B cache line
	}
}

// Validate checks that the geometry describes at least one full set.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("cache size must be > 0")
	}
	if c.Associativity <= 0 {
		return fmt.Errorf("cache associativity must be > 0")
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("cache block_size must be > 0")
	}
	if c.Size%(c.Associativity*c.BlockSize) != 0 {
		return fmt.Errorf("cache size must be a multiple of associativity*block_size")
	}
	return nil
}

// Statistics holds replay statistics.
type Statistics struct {
	Reads     uint64
	Writes    uint64
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Accesses returns the number of replayed accesses.
func (s Statistics) Accesses() uint64 {
	return s.Hits + s.Misses
}

// HitRate returns hits over accesses, or 0 when nothing was replayed.
func (s Statistics) HitRate() float64 {
	if s.Accesses() == 0 {
		return 0.0
	}
	return float64(s.Hits) / float64(s.Accesses())
}

// Replayer is a write-allocate, LRU, set-associative tag store.
type Replayer struct {
	config    Config
	directory *akitacache.DirectoryImpl
	stats     Statistics
}

// New creates a new replayer. The config must be valid.
func New(config Config) *Replayer {
	numSets := config.Size / (config.Associativity * config.BlockSize)

	return &Replayer{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
	}
}

// Config returns the replay configuration.
func (r *Replayer) Config() Config {
	return r.config
}

// Stats returns replay statistics.
func (r *Replayer) Stats() Statistics {
	return r.stats
}

// Read replays a load from addr and returns whether it hit.
func (r *Replayer) Read(addr uint64) bool {
	r.stats.Reads++
	return r.access(addr)
}

// Write replays a store to addr and returns whether it hit.
func (r *Replayer) Write(addr uint64) bool {
	r.stats.Writes++
	return r.access(addr)
}

func (r *Replayer) access(addr uint64) bool {
	blockAddr := (addr / uint64(r.config.BlockSize)) * uint64(r.config.BlockSize)

	block := r.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		r.stats.Hits++
		r.directory.Visit(block)
		return true
	}

	r.stats.Misses++

	victim := r.directory.FindVictim(blockAddr)
	if victim == nil {
		return false
	}

	if victim.IsValid {
		r.stats.Evictions++
	}

	// Tag stores the block-aligned address.
	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	r.directory.Visit(victim)

	return false
}

// Reset invalidates all lines and clears statistics.
func (r *Replayer) Reset() {
	r.directory.Reset()
	r.stats = Statistics{}
}
