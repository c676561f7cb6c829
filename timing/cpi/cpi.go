// Package cpi provides closed-form cycles-per-instruction estimates from an
// instruction mix.
//
// The model is an estimate, not a replay: each retired instruction costs a
// base CPI, memory accesses and branches add fixed penalties, and the
// cache-aware and latency variants sweep those penalties over a set of
// scenarios. Penalties and scenarios come from Config.
package cpi

import (
	"github.com/sarchlab/ibexprof/timing/mix"
)

// Breakdown splits the flat CPI estimate into its components.
type Breakdown struct {
	Base   float64
	Mem    float64
	Branch float64
}

// Total returns the summed CPI. It equals Model.FlatCPI for the same mix.
func (b Breakdown) Total() float64 {
	return b.Base + b.Mem + b.Branch
}

// CachePoint is one row of the cache-aware sweep.
type CachePoint struct {
	HitRate float64
	MemCPI  float64
	CPI     float64
}

// LatencyPoint is one row of the memory latency sweep.
type LatencyPoint struct {
	Latency uint64
	CPI     float64
}

// Model computes CPI estimates. It is stateless apart from its
// configuration.
type Model struct {
	config *Config
}

// NewModel creates a new model with the default configuration.
func NewModel() *Model {
	return &Model{
		config: DefaultConfig(),
	}
}

// NewModelWithConfig creates a new model with a custom configuration.
func NewModelWithConfig(config *Config) *Model {
	return &Model{
		config: config,
	}
}

// Config returns the model configuration.
func (m *Model) Config() *Config {
	return m.config
}

// MPI returns the memory pressure index: loads plus stores per instruction.
func (m *Model) MPI(c mix.Counters) float64 {
	if c.Total == 0 {
		return 0.0
	}
	return float64(c.Loads()+c.Stores()) / float64(c.Total)
}

// BranchDensity returns branches and jumps per instruction.
func (m *Model) BranchDensity(c mix.Counters) float64 {
	if c.Total == 0 {
		return 0.0
	}
	return float64(c.Branches()) / float64(c.Total)
}

// LoadStoreRatio returns loads over stores, with a small epsilon added to
// the store count instead of guarding against zero.
func (m *Model) LoadStoreRatio(c mix.Counters) float64 {
	return float64(c.Loads()) / (float64(c.Stores()) + m.config.RatioEpsilon)
}

// Breakdown returns the component CPI estimate.
func (m *Model) Breakdown(c mix.Counters) Breakdown {
	return Breakdown{
		Base:   m.config.BaseCPI,
		Mem:    m.config.MemPenalty * m.MPI(c),
		Branch: m.config.BranchPenalty * m.BranchDensity(c),
	}
}

// FlatCPI returns the flat CPI estimate with fixed memory and branch
// penalties.
func (m *Model) FlatCPI(c mix.Counters) float64 {
	return m.config.BaseCPI + m.config.MemPenalty*m.MPI(c) + m.config.BranchPenalty*m.BranchDensity(c)
}

// CacheCPI returns the cache-aware estimate for one hit rate. Hits cost the
// hit latency and misses the miss penalty per memory access.
func (m *Model) CacheCPI(c mix.Counters, hitRate float64) CachePoint {
	missRate := 1.0 - hitRate
	memCPI := m.MPI(c) * (hitRate*m.config.CacheHitLatency + missRate*m.config.CacheMissPenalty)

	return CachePoint{
		HitRate: hitRate,
		MemCPI:  memCPI,
		CPI:     m.config.BaseCPI + memCPI + m.BranchDensity(c)*m.config.BranchPenalty,
	}
}

// CacheSweep returns the cache-aware estimate for every configured hit rate.
func (m *Model) CacheSweep(c mix.Counters) []CachePoint {
	points := make([]CachePoint, 0, len(m.config.HitRates))
	for _, h := range m.config.HitRates {
		points = append(points, m.CacheCPI(c, h))
	}
	return points
}

// LatencySweep returns the estimate for every configured memory latency.
func (m *Model) LatencySweep(c mix.Counters) []LatencyPoint {
	mpi := m.MPI(c)
	branchCPI := m.BranchDensity(c) * m.config.BranchPenalty

	points := make([]LatencyPoint, 0, len(m.config.MemLatencies))
	for _, lat := range m.config.MemLatencies {
		points = append(points, LatencyPoint{
			Latency: lat,
			CPI:     m.config.BaseCPI + float64(lat)*mpi + branchCPI,
		})
	}
	return points
}

// HazardRate returns load-use hazards per load, or 0 when no load was seen.
func (m *Model) HazardRate(h mix.HazardStats) float64 {
	if h.TotalLoads == 0 {
		return 0.0
	}
	return float64(h.LoadUseHazards) / float64(h.TotalLoads)
}
