package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/CraigKelly/metro/rand"
	"github.com/CraigKelly/metro/sdt"
	"github.com/CraigKelly/metro/target"
)

type sdtFlags struct {
	dprime   float64
	criteria []float64
	signal   int
	noise    int
	dataFile string
	priorSD  float64
	start    float64
}

func newSDTCmd(rf *rootFlags) *cobra.Command {
	f := &sdtFlags{}

	c := &cobra.Command{
		Use:   "sdt",
		Short: "Sample the ROC sensitivity of signal detection data",
		Long: `Sample the posterior of the ROC sensitivity a given yes/no signal
detection counts (one condition per response criterion). Counts are
simulated from --dprime and --criteria unless --data names a file with
"hits misses falseAlarms correctRejections" per line.
The prior on a is Normal(0, --prior-sd).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, err := newStartupParams(cmd, rf)
			if err != nil {
				return err
			}
			defer sp.close()
			return SDTPosterior(sp, f)
		},
	}

	fl := c.Flags()
	fl.Float64Var(&f.dprime, "dprime", 1, "Sensitivity of the simulated observer")
	fl.Float64SliceVar(&f.criteria, "criteria", []float64{-1, 0, 1}, "Response criteria of the simulated conditions")
	fl.IntVar(&f.signal, "signal", 40, "Signal trials per simulated condition")
	fl.IntVar(&f.noise, "noise", 40, "Noise trials per simulated condition")
	fl.StringVarP(&f.dataFile, "data", "d", "", "Read counts from this file instead of simulating")
	fl.Float64Var(&f.priorSD, "prior-sd", 10, "Standard deviation of the Normal(0, sd) prior on a")
	fl.Float64Var(&f.start, "start", 0, "Initial state of the chain")

	return c
}

// SDTPosterior simulates or reads signal detection counts and samples the
// posterior of the ROC sensitivity.
func SDTPosterior(sp *startupParams, f *sdtFlags) error {
	gen, err := rand.NewGenerator(sp.cfg.Seed)
	if err != nil {
		return err
	}

	var conds []sdt.SignalDetection
	if len(f.dataFile) > 0 {
		sp.out.Printf("Reading counts from %s\n", f.dataFile)
		conds, err = sdt.ReadFile(f.dataFile)
	} else {
		sp.out.Printf("Simulating d'=%.3f over criteria %v (%d signal, %d noise trials)\n", f.dprime, f.criteria, f.signal, f.noise)
		conds, err = sdt.Simulate(gen, f.dprime, f.criteria, f.signal, f.noise)
	}
	if err != nil {
		return err
	}

	for i, s := range conds {
		sp.out.Printf("Condition %d | H:%4d M:%4d FA:%4d CR:%4d | HR:%6.3f FAR:%6.3f\n",
			i, s.Hits, s.Misses, s.FalseAlarms, s.CorrectRejections, s.HitRate(), s.FalseAlarmRate())

		// The ROC curve pins the hit rate at FAR 0 (or 1) for every a
		far := s.FalseAlarmRate()
		if (far == 0 && s.Hits > 0) || (far == 1 && s.Misses > 0) {
			return errors.Errorf("Condition %d has false alarm rate %v: ROC loss is infinite for every a", i, far)
		}
	}

	lik, err := sdt.LogLikelihood(conds)
	if err != nil {
		return err
	}
	prior, err := target.Normal(0, f.priorSD)
	if err != nil {
		return errors.Wrap(err, "Invalid prior")
	}
	post, err := target.Sum(lik, prior)
	if err != nil {
		return err
	}

	_, err = runChain(sp, gen, post, f.start)
	return err
}
