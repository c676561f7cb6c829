package main

import (
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/ibexprof/report"
	"github.com/sarchlab/ibexprof/timing/cpi"
	"github.com/sarchlab/ibexprof/timing/mix"
	"github.com/sarchlab/ibexprof/timing/stall"
)

// options selects the traces and model of one run.
type options struct {
	MixTrace   string
	StallTrace string
	Config     *cpi.Config
	RunID      string
	Verbose    bool
}

// analyze runs the mix/hazard pass and the stall pass. The passes share no
// state and run concurrently; the first failure is returned.
func analyze(opts options) (*report.Report, error) {
	config := opts.Config
	if config == nil {
		config = cpi.DefaultConfig()
	}

	var ingestOpts []mix.IngestorOption
	if config.Cache.Enabled {
		ingestOpts = append(ingestOpts, mix.WithCacheReplay(config.Cache))
	}
	ingestor := mix.NewIngestor(ingestOpts...)

	var (
		g           errgroup.Group
		mixResult   mix.Result
		stallResult stall.Result
	)

	g.Go(func() error {
		var err error
		mixResult, err = ingestor.IngestFile(opts.MixTrace)
		return err
	})

	g.Go(func() error {
		var err error
		stallResult, err = stall.AnalyzeFile(opts.StallTrace)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &report.Report{
		RunID:      opts.RunID,
		MixTrace:   opts.MixTrace,
		StallTrace: opts.StallTrace,
		Mix:        mixResult,
		Stall:      stallResult,
		Model:      cpi.NewModelWithConfig(config),
		Verbose:    opts.Verbose,
	}, nil
}
