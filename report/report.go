// Package report prints the bottleneck analysis as human-readable tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/ibexprof/insts"
	"github.com/sarchlab/ibexprof/timing/cpi"
	"github.com/sarchlab/ibexprof/timing/mix"
	"github.com/sarchlab/ibexprof/timing/stall"
)

// Report bundles the results of both passes.
type Report struct {
	// RunID tags the report. Omitted from the header when empty.
	RunID string

	// MixTrace and StallTrace are the trace paths, printed in verbose mode.
	MixTrace   string
	StallTrace string

	Mix   mix.Result
	Stall stall.Result
	Model *cpi.Model

	// Verbose adds trace paths and skipped-line counts.
	Verbose bool
}

// Write prints every table in order: instruction mix, bottleneck metrics,
// dependency bottleneck, CPI breakdown, cache-aware CPI, memory latency
// study and pipeline stall attribution.
func (r *Report) Write(w io.Writer) {
	model := r.Model
	if model == nil {
		model = cpi.NewModel()
	}

	r.writeHeader(w)
	writeMix(w, r.Mix.Counters)
	writeBottleneck(w, model, r.Mix.Counters)
	writeDependency(w, model, r.Mix.Hazards)
	writeBreakdown(w, model.Breakdown(r.Mix.Counters))
	writeCacheSweep(w, model, r.Mix)
	writeLatencySweep(w, model.LatencySweep(r.Mix.Counters))
	writeStalls(w, r.Stall.Counters)

	if r.Verbose {
		r.writeSkipped(w)
	}
}

func (r *Report) writeHeader(w io.Writer) {
	fmt.Fprintf(w, "Ibex Trace Bottleneck Analyzer\n")
	if r.RunID != "" {
		fmt.Fprintf(w, "Run: %s\n", r.RunID)
	}
	if r.Verbose {
		fmt.Fprintf(w, "Instruction trace: %s\n", r.MixTrace)
		fmt.Fprintf(w, "Cycle trace:       %s\n", r.StallTrace)
	}
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func writeMix(w io.Writer, c mix.Counters) {
	section(w, "Instruction Breakdown")
	fmt.Fprintf(w, "%-10s: %d\n", "total", c.Total)
	for _, cat := range insts.Categories() {
		fmt.Fprintf(w, "%-10s: %d\n", cat, c.Count(cat))
	}
}

func writeBottleneck(w io.Writer, m *cpi.Model, c mix.Counters) {
	section(w, "Bottleneck Metrics")
	fmt.Fprintf(w, "Memory Pressure Index (MPI): %.3f\n", m.MPI(c))
	fmt.Fprintf(w, "Branch Density            : %.6f\n", m.BranchDensity(c))
	fmt.Fprintf(w, "Estimated CPI             : %.3f\n", m.FlatCPI(c))
	fmt.Fprintf(w, "Load / Store Ratio        : %.2f\n", m.LoadStoreRatio(c))
}

func writeDependency(w io.Writer, m *cpi.Model, h mix.HazardStats) {
	section(w, "Dependency Bottleneck")
	fmt.Fprintf(w, "Total Loads            : %d\n", h.TotalLoads)
	fmt.Fprintf(w, "Load-Use Hazards       : %d\n", h.LoadUseHazards)
	fmt.Fprintf(w, "Load-Use Hazard Rate   : %.3f\n", m.HazardRate(h))
}

func writeBreakdown(w io.Writer, b cpi.Breakdown) {
	section(w, "CPI Breakdown")
	fmt.Fprintf(w, "Base CPI              : %.2f\n", b.Base)
	fmt.Fprintf(w, "Memory Stall CPI      : %.2f\n", b.Mem)
	fmt.Fprintf(w, "Branch Penalty CPI    : %.2f\n", b.Branch)
	fmt.Fprintf(w, "Total Estimated CPI   : %.2f\n", b.Total())
}

func writeCacheSweep(w io.Writer, m *cpi.Model, res mix.Result) {
	section(w, "Cache-Aware CPI Analysis")
	for _, p := range m.CacheSweep(res.Counters) {
		fmt.Fprintf(w, "Cache hit rate %4.2f → CPI = %4.2f\n", p.HitRate, p.CPI)
	}

	if res.Cache != nil && res.Cache.Accesses() > 0 {
		p := m.CacheCPI(res.Counters, res.Cache.HitRate())
		fmt.Fprintf(w, "Observed hit rate %4.2f → CPI = %4.2f (%d accesses replayed)\n",
			p.HitRate, p.CPI, res.Cache.Accesses())
	}
}

func writeLatencySweep(w io.Writer, points []cpi.LatencyPoint) {
	section(w, "What-if Memory Latency Study")
	for _, p := range points {
		fmt.Fprintf(w, "Memory latency %d cycles → CPI = %.2f\n", p.Latency, p.CPI)
	}
}

func writeStalls(w io.Writer, c stall.Counters) {
	section(w, "Pipeline Stall Attribution")
	for _, s := range stall.Stages() {
		fmt.Fprintf(w, "%-4s stall cycles : %8d (%5.1f%%)\n", s, c.Cycles(s), c.Percent(s))
	}
}

func (r *Report) writeSkipped(w io.Writer) {
	section(w, "Skipped Lines")
	fmt.Fprintf(w, "Instruction trace header  : %d\n", r.Mix.Skipped.Header)
	fmt.Fprintf(w, "Instruction trace shape   : %d\n", r.Mix.Skipped.Shape)
	fmt.Fprintf(w, "Cycle trace shape         : %d\n", r.Stall.Skipped.Shape)
	fmt.Fprintf(w, "Cycle trace parse failure : %d\n", r.Stall.Skipped.Parse)
}
