package mix

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/ibexprof/insts"
	"github.com/sarchlab/ibexprof/timing/cache"
	"github.com/sarchlab/ibexprof/trace"
)

// SkipStats counts trace lines the pass did not use. Skips are never
// errors.
type SkipStats struct {
	// Header is 1 once the leading header line has been consumed.
	Header uint64
	// Shape counts blank lines and lines with fewer than 6 fields.
	Shape uint64
}

// Result is the outcome of one mix pass.
type Result struct {
	Counters Counters
	Hazards  HazardStats
	Skipped  SkipStats

	// Cache holds replay statistics when cache replay is enabled.
	Cache *cache.Statistics
}

// IngestorOption is a functional option for configuring the Ingestor.
type IngestorOption func(*Ingestor)

// WithOperandExtractor replaces the positional operand extractor.
func WithOperandExtractor(extractor insts.OperandExtractor) IngestorOption {
	return func(in *Ingestor) {
		in.extractor = extractor
	}
}

// WithCacheReplay replays every load and store that carries a memory
// address through a cache with the given geometry.
func WithCacheReplay(config cache.Config) IngestorOption {
	return func(in *Ingestor) {
		config.Enabled = true
		in.cacheConfig = &config
	}
}

// Ingestor runs the instruction-mix and hazard pass. It keeps no state
// between runs; every Ingest call starts from zero.
type Ingestor struct {
	extractor   insts.OperandExtractor
	cacheConfig *cache.Config
}

// NewIngestor creates a new Ingestor.
func NewIngestor(opts ...IngestorOption) *Ingestor {
	in := &Ingestor{
		extractor: insts.NewPositionalExtractor(),
	}

	for _, opt := range opts {
		opt(in)
	}

	return in
}

// pass is the mutable state of a single run.
type pass struct {
	extractor insts.OperandExtractor
	hazards   *HazardUnit
	replayer  *cache.Replayer
	result    Result
}

// Ingest consumes a retirement trace. The first line is a header and is
// always discarded.
func (in *Ingestor) Ingest(r io.Reader) (Result, error) {
	p := &pass{
		extractor: in.extractor,
		hazards:   NewHazardUnit(),
	}
	if in.cacheConfig != nil {
		p.replayer = cache.New(*in.cacheConfig)
	}

	err := trace.ForEachLine(r, func(lineNo int, line string) {
		if lineNo == 1 {
			p.result.Skipped.Header = 1
			return
		}
		p.line(line)
	})
	if err != nil {
		return Result{}, err
	}

	p.result.Hazards = p.hazards.Stats()
	if p.replayer != nil {
		stats := p.replayer.Stats()
		p.result.Cache = &stats
	}

	return p.result, nil
}

// IngestFile consumes the retirement trace at path. The file is closed on
// return.
func (in *Ingestor) IngestFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open instruction trace: %w", err)
	}
	defer func() { _ = f.Close() }()

	return in.Ingest(f)
}

func (p *pass) line(line string) {
	rec, ok := trace.ParseRetireLine(line)
	if !ok {
		p.result.Skipped.Shape++
		return
	}

	cat := insts.Classify(rec.Decoded)
	ops := p.extractor.Extract(rec.Decoded)

	p.result.Counters.Add(cat)
	p.hazards.Observe(cat, ops)

	if p.replayer != nil && rec.HasMemAddr {
		switch cat {
		case insts.CategoryLoad:
			p.replayer.Read(rec.MemAddr)
		case insts.CategoryStore:
			p.replayer.Write(rec.MemAddr)
		}
	}
}
