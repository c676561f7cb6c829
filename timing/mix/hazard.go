package mix

import "github.com/sarchlab/ibexprof/insts"

// HazardState is the state of the load-use hazard detector.
type HazardState uint8

const (
	// HazardIdle means the previous instruction was not a load with a
	// destination register.
	HazardIdle HazardState = iota
	// HazardArmed means the previous instruction was a load and its
	// destination register is pending.
	HazardArmed
)

// HazardStats holds load-use hazard counts.
type HazardStats struct {
	// TotalLoads is the number of load instructions seen.
	TotalLoads uint64
	// LoadUseHazards is the number of instructions that read the
	// destination of the load immediately before them.
	LoadUseHazards uint64
}

// HazardUnit detects load-use hazards with a one-instruction lookback.
//
// A load arms the unit with its destination register, replacing any pending
// one. Any other instruction is checked against the pending register and
// then always returns the unit to idle.
type HazardUnit struct {
	state     HazardState
	pendingRd string
	stats     HazardStats
}

// NewHazardUnit creates a new, idle hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// Observe feeds the next retired instruction into the unit. It returns true
// if the instruction completes a load-use hazard.
func (h *HazardUnit) Observe(cat insts.Category, ops insts.Operands) bool {
	if cat == insts.CategoryLoad {
		h.stats.TotalLoads++
		h.arm(ops.Rd)
		return false
	}

	hazard := h.state == HazardArmed && ops.Reads(h.pendingRd)
	if hazard {
		h.stats.LoadUseHazards++
	}

	h.state = HazardIdle
	h.pendingRd = ""

	return hazard
}

func (h *HazardUnit) arm(rd string) {
	if rd == "" {
		h.state = HazardIdle
		h.pendingRd = ""
		return
	}

	h.state = HazardArmed
	h.pendingRd = rd
}

// State returns the current detector state.
func (h *HazardUnit) State() HazardState {
	return h.state
}

// PendingRd returns the armed destination register, or "" when idle.
func (h *HazardUnit) PendingRd() string {
	return h.pendingRd
}

// Stats returns the hazard counts so far.
func (h *HazardUnit) Stats() HazardStats {
	return h.stats
}

// Reset returns the unit to idle and clears its counts.
func (h *HazardUnit) Reset() {
	*h = HazardUnit{}
}
