package cmd

import (
	"github.com/spf13/cobra"

	"github.com/CraigKelly/metro/rand"
	"github.com/CraigKelly/metro/target"
)

type normalFlags struct {
	mu    float64
	sigma float64
	start float64
}

func newNormalCmd(rf *rootFlags) *cobra.Command {
	f := &normalFlags{}

	c := &cobra.Command{
		Use:   "normal",
		Short: "Sample a Normal(mu, sigma) target (sanity check)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sp, err := newStartupParams(cmd, rf)
			if err != nil {
				return err
			}
			defer sp.close()
			return NormalTarget(sp, f)
		},
	}

	fl := c.Flags()
	fl.Float64Var(&f.mu, "mu", 0, "Mean of the target")
	fl.Float64Var(&f.sigma, "sigma", 1, "Standard deviation of the target")
	fl.Float64Var(&f.start, "start", 0, "Initial state of the chain")

	return c
}

// NormalTarget samples a normal distribution with known moments
func NormalTarget(sp *startupParams, f *normalFlags) error {
	ld, err := target.Normal(f.mu, f.sigma)
	if err != nil {
		return err
	}

	gen, err := rand.NewGenerator(sp.cfg.Seed)
	if err != nil {
		return err
	}

	sp.out.Printf("Target Normal(%.4f, %.4f)\n", f.mu, f.sigma)
	_, err = runChain(sp, gen, ld, f.start)
	return err
}
