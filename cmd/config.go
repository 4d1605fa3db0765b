package cmd

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/CraigKelly/metro/sampler"
)

// Config holds the run settings that can come from a YAML file. Command line
// flags override anything read here.
type Config struct {
	Seed       int64   `yaml:"seed"`
	Blocks     []int   `yaml:"blocks"`
	Samples    int     `yaml:"samples"`
	TargetRate float64 `yaml:"target-rate"`
	Exponent   float64 `yaml:"exponent"`
	MinScale   float64 `yaml:"min-scale"`
	MaxScale   float64 `yaml:"max-scale"`
	Window     int     `yaml:"window"`
}

// DefaultConfig is three adaptation blocks of 200 followed by 400 draws
func DefaultConfig() Config {
	s := sampler.DefaultSettings()
	return Config{
		Seed:       1,
		Blocks:     []int{200, 200, 200},
		Samples:    400,
		TargetRate: s.TargetRate,
		Exponent:   s.Exponent,
		MinScale:   s.MinScale,
		MaxScale:   s.MaxScale,
		Window:     s.Window,
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig
func LoadConfig(filename string) (Config, error) {
	cfg := DefaultConfig()

	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return cfg, errors.Wrapf(err, "Could not READ config from %s", filename)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "Could not PARSE config %s", filename)
	}

	if err := cfg.Check(); err != nil {
		return cfg, errors.Wrapf(err, "Config %s is not valid", filename)
	}

	return cfg, nil
}

// Check returns an error if the config can not drive a run
func (c Config) Check() error {
	if c.Samples < 1 {
		return errors.Errorf("Sample count %d must be > 0", c.Samples)
	}
	for i, b := range c.Blocks {
		if b < 1 {
			return errors.Errorf("Block %d has length %d (must be > 0)", i, b)
		}
	}
	return c.Settings().Check()
}

// Settings returns the sampler settings described by the config
func (c Config) Settings() sampler.Settings {
	s := sampler.DefaultSettings()
	s.TargetRate = c.TargetRate
	s.Exponent = c.Exponent
	s.MinScale = c.MinScale
	s.MaxScale = c.MaxScale
	s.Window = c.Window
	return s
}
