package instancepool

import (
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

// Config is the file form of the pool options.
// Growth and AvailableMaximum are pointers so that an absent key keeps the
// New default: growth 1 and an unbounded cap. An explicit 0 growth is rejected
// by New, an explicit 0 maximum disables caching.
type Config struct {
	Name             string `yaml:"name" mapstructure:"name"`
	InitialSize      int    `yaml:"initial_size" mapstructure:"initial_size"`
	Growth           *int   `yaml:"growth" mapstructure:"growth"`
	AvailableMaximum *int   `yaml:"available_maximum" mapstructure:"available_maximum"`
}

// DefaultConfig returns the configuration New uses when no option is given
func DefaultConfig() Config {
	growth, unbounded := 1, math.MaxInt
	return Config{
		Growth:           &growth,
		AvailableMaximum: &unbounded,
	}
}

// LoadConfig decodes a YAML pool configuration. Keys missing from the
// document keep their DefaultConfig value.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	return cfg, nil
}

// Options converts the configuration into pool options
func (c Config) Options() []Option {
	opts := []Option{WithInitialSize(c.InitialSize)}
	if c.Growth != nil {
		opts = append(opts, WithGrowth(*c.Growth))
	}
	if c.Name != "" {
		opts = append(opts, WithName(c.Name))
	}
	if c.AvailableMaximum != nil {
		opts = append(opts, WithAvailableMaximum(*c.AvailableMaximum))
	}

	return opts
}
