package cmd

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/CraigKelly/metro/rand"
	"github.com/CraigKelly/metro/sampler"
)

// startupParams is everything a sub command needs to run a chain
type startupParams struct {
	cfg   Config
	out   *log.Logger
	trace *log.Logger
	mon   *monitor

	traceFile *os.File
}

// newStartupParams merges config file and flags, opens the trace file and
// starts the monitor if requested. Call close when done.
func newStartupParams(cmd *cobra.Command, rf *rootFlags) (*startupParams, error) {
	setupLogging(rf.verbose)

	cfg := DefaultConfig()
	if len(rf.cfgFile) > 0 {
		var err error
		cfg, err = LoadConfig(rf.cfgFile)
		if err != nil {
			return nil, err
		}
		logger.Infof("Read config from %s", rf.cfgFile)
	}

	// Flags only win when actually given
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = rf.seed
	}
	if flags.Changed("blocks") {
		cfg.Blocks = rf.blocks
	}
	if flags.Changed("samples") {
		cfg.Samples = rf.samples
	}
	if err := cfg.Check(); err != nil {
		return nil, errors.Wrap(err, "Invalid run settings")
	}

	sp := &startupParams{
		cfg: cfg,
		out: log.New(cmd.OutOrStdout(), "", 0),
	}

	if len(rf.traceFile) > 0 {
		f, err := os.Create(rf.traceFile)
		if err != nil {
			return nil, errors.Wrapf(err, "Could not create trace file %s", rf.traceFile)
		}
		sp.traceFile = f
		sp.trace = log.New(f, "", 0)
	}

	if len(rf.monitor) > 0 {
		sp.mon = &monitor{}
		if err := sp.mon.Start(rf.monitor); err != nil {
			sp.close()
			return nil, err
		}
		sp.mon.Seed.Set(cfg.Seed)
		sp.mon.BlocksPlanned.Set(int64(len(cfg.Blocks)))
	}

	return sp, nil
}

func (sp *startupParams) close() {
	if sp.mon != nil {
		sp.mon.Stop()
	}
	if sp.traceFile != nil {
		if err := sp.traceFile.Close(); err != nil {
			logger.Errorf("Could not close trace file: %v", err)
		}
	}
}

// runChain adapts and samples one chain on ld starting from start, writes
// the report to sp.out and returns the summary.
func runChain(sp *startupParams, gen *rand.Generator, ld sampler.LogDensity, start float64) (sampler.Summary, error) {
	settings := sp.cfg.Settings()
	settings.OnBlock = func(b sampler.BlockStats) {
		sp.out.Printf("Block %3d | L=%6d Acc:%7.3f Scale:%12.6f Center:%12.6f\n", b.Index, b.Length, b.Rate, b.Scale, b.Center)
		if sp.mon != nil {
			sp.mon.Block(b)
		}
	}

	samp, err := sampler.NewMetropolisWithSettings(gen, ld, start, settings)
	if err != nil {
		return sampler.Summary{}, err
	}

	sp.out.Printf("Adapting: %d blocks, target acceptance %.2f\n", len(sp.cfg.Blocks), settings.TargetRate)
	if err = samp.Adapt(sp.cfg.Blocks); err != nil {
		return sampler.Summary{}, errors.Wrap(err, "Adaptation failed")
	}

	sp.out.Printf("Sampling: %d draws at scale %.6f\n", sp.cfg.Samples, samp.Scale())
	if err = samp.Draw(sp.cfg.Samples); err != nil {
		return sampler.Summary{}, errors.Wrap(err, "Sampling failed")
	}
	if sp.mon != nil {
		sp.mon.Drawn(samp)
	}

	rolling, drift := samp.RollingAcceptanceRate()
	sp.out.Printf("Acceptance: %.3f (last %d: %.3f, half drift %+.3f)\n", samp.AcceptanceRate(), settings.Window, rolling, drift)

	if sp.trace != nil {
		for _, x := range samp.Samples() {
			sp.trace.Printf("%.12g\n", x)
		}
		logger.Infof("Wrote %d samples to trace file", sp.cfg.Samples)
	}

	sum, err := samp.Summarize()
	if err != nil {
		return sampler.Summary{}, err
	}
	sp.out.Printf("Summary | Mean:%12.6f C025:%12.6f C975:%12.6f\n", sum.Mean, sum.C025, sum.C975)

	return sum, nil
}
