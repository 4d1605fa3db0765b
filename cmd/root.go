package cmd

import (
	"fmt"
	"os"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

// logger is the command package logger (stderr); reports go to startupParams.out
var logger = logging.MustGetLogger("metro")
var formatter = logging.MustStringFormatter(`%{time:15:04:05.000} %{module} %{level:.4s} %{message}`)

// rootFlags are the persistent flags shared by every sub command
type rootFlags struct {
	cfgFile   string
	verbose   bool
	seed      int64
	blocks    []int
	samples   int
	traceFile string
	monitor   string
}

// newRootCmd builds the command tree. Flags live in the returned command, so
// tests can build as many independent trees as they like.
func newRootCmd() *cobra.Command {
	rf := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "metro",
		Short: "Adaptive random-walk Metropolis sampling",
		Long: `metro draws samples from a one dimensional distribution known only
through its (unnormalized) log-density.
Among other features:

  - Block-wise adaptation of the proposal scale toward 40% acceptance
  - Posterior sampling for signal detection (ROC) experiments
  - Reproducible chains from a fixed seed
`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rf.cfgFile, "config", "c", "", "YAML config file (seed, blocks, samples, target-rate, exponent, min-scale, max-scale, window)")
	pf.BoolVarP(&rf.verbose, "verbose", "v", false, "Verbose logging (default is much more parsimonious)")
	pf.Int64VarP(&rf.seed, "seed", "r", 1, "Random seed to use")
	pf.IntSliceVar(&rf.blocks, "blocks", []int{200, 200, 200}, "Adaptation block lengths")
	pf.IntVarP(&rf.samples, "samples", "n", 400, "Number of samples to draw after adaptation")
	pf.StringVarP(&rf.traceFile, "trace", "t", "", "Write every sample to this file (one per line)")
	pf.StringVar(&rf.monitor, "monitor", "", "Serve progress via expvar on this address (e.g. :8000)")

	rootCmd.AddCommand(newSDTCmd(rf))
	rootCmd.AddCommand(newNormalCmd(rf))

	return rootCmd
}

// setupLogging configures the go-logging backend for all packages
func setupLogging(verbose bool) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	logging.SetBackend(logging.NewBackendFormatter(backend, formatter))

	level := logging.NOTICE
	if verbose {
		level = logging.DEBUG
	}
	logging.SetLevel(level, "metro")
	logging.SetLevel(level, "sampler")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
