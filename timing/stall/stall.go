// Package stall attributes pipeline stall cycles to stages from a stream of
// retirement cycle and program counter pairs.
//
// A gap larger than one cycle between consecutive retirements is counted as
// gap-1 stall cycles. If the PC did not change the stall is charged to MEM,
// otherwise to EX. IF and ID are reported but never charged by this
// heuristic.
package stall

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/ibexprof/trace"
)

// Stage is a pipeline stage a stall can be attributed to.
type Stage uint8

// Pipeline stages, in report order.
const (
	StageIF Stage = iota
	StageID
	StageEX
	StageMEM

	// NumStages is the number of stages.
	NumStages
)

// Stages returns all stages in report order.
func Stages() []Stage {
	return []Stage{StageIF, StageID, StageEX, StageMEM}
}

// String returns the stage tag.
func (s Stage) String() string {
	switch s {
	case StageIF:
		return "IF"
	case StageID:
		return "ID"
	case StageEX:
		return "EX"
	case StageMEM:
		return "MEM"
	default:
		return "??"
	}
}

// Counters holds accumulated stall cycles per stage.
type Counters struct {
	ByStage [NumStages]uint64
}

// Cycles returns the stall cycles charged to a stage.
func (c Counters) Cycles(s Stage) uint64 {
	if s >= NumStages {
		return 0
	}
	return c.ByStage[s]
}

// Total returns the stall cycles over all stages.
func (c Counters) Total() uint64 {
	var total uint64
	for _, n := range c.ByStage {
		total += n
	}
	return total
}

// Percent returns the share of a stage in percent, or 0 when no stall was
// attributed.
func (c Counters) Percent(s Stage) float64 {
	total := c.Total()
	if total == 0 {
		return 0.0
	}
	return float64(c.Cycles(s)) / float64(total) * 100
}

// Attributor carries the previous retirement across records.
type Attributor struct {
	counters Counters

	havePrev  bool
	prevCycle int64
	prevPC    uint64
}

// NewAttributor creates a new attributor with no previous retirement.
func NewAttributor() *Attributor {
	return &Attributor{}
}

// Observe feeds the next retirement and returns the number of stall cycles
// it attributed and the stage they went to. cycles is 0 for the first
// record and whenever the gap is at most one cycle; stage is then
// meaningless.
func (a *Attributor) Observe(rec trace.CycleRecord) (stage Stage, cycles uint64) {
	if a.havePrev {
		if delta := rec.Cycle - a.prevCycle; delta > 1 {
			stage = StageEX
			if rec.PC == a.prevPC {
				stage = StageMEM
			}

			cycles = uint64(delta - 1)
			a.counters.ByStage[stage] += cycles
		}
	}

	a.havePrev = true
	a.prevCycle = rec.Cycle
	a.prevPC = rec.PC

	return stage, cycles
}

// Counters returns the stall counts so far.
func (a *Attributor) Counters() Counters {
	return a.counters
}

// SkipStats counts cycle trace lines that produced no record.
type SkipStats struct {
	// Shape counts blank, header and too-short lines.
	Shape uint64
	// Parse counts lines whose cycle or PC did not parse.
	Parse uint64
}

// Result is the outcome of one stall attribution pass.
type Result struct {
	Counters Counters
	Records  uint64
	Skipped  SkipStats
}

// Analyze runs a stall attribution pass over a cycle trace.
func Analyze(r io.Reader) (Result, error) {
	var result Result
	a := NewAttributor()

	err := trace.ForEachLine(r, func(_ int, line string) {
		rec, kind := trace.ParseCycleLine(line)
		switch kind {
		case trace.LineSkippedShape:
			result.Skipped.Shape++
		case trace.LineSkippedParse:
			result.Skipped.Parse++
		default:
			result.Records++
			a.Observe(rec)
		}
	})
	if err != nil {
		return Result{}, err
	}

	result.Counters = a.Counters()
	return result, nil
}

// AnalyzeFile runs a stall attribution pass over the cycle trace at path.
// The file is closed on return.
func AnalyzeFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open cycle trace: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Analyze(f)
}
