package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v2"
)

// Config bundles the problem size parameters and the reward coefficients
// used by the placement simulator.
type Config struct {
	Problem ProblemConfig `yaml:"problem"`
	Rewards RewardConfig  `yaml:"rewards"`
	// Seed is the base seed for simulators and policies. Instance i of a
	// constructor uses Seed+i.
	Seed uint64 `yaml:"seed"`
}

type ProblemConfig struct {
	MinItemSize float64 `yaml:"min_item_size"`
	MaxItemSize float64 `yaml:"max_item_size"`
	MinNumItems int     `yaml:"min_num_items" validate:"min=0"`
	MaxNumItems int     `yaml:"max_num_items" validate:"min=1"`
	MinBinSize  float64 `yaml:"min_bin_size"`
	MaxBinSize  float64 `yaml:"max_bin_size"`
	TotalBins   int     `yaml:"total_bins" validate:"min=1"`

	// Critical items are replicated NumberOfCopies times, every copy sharing
	// the same critical group.
	NumberOfCriticalItems int `yaml:"number_of_critical_items" validate:"min=0"`
	NumberOfCopies        int `yaml:"number_of_copies"`

	MinComms int `yaml:"min_comms" validate:"min=0"`
	MaxComms int `yaml:"max_comms" validate:"min=0"`
}

// RewardConfig holds the reward shaping coefficients.
type RewardConfig struct {
	Success               float64 `yaml:"success"`
	DuplicatePick         float64 `yaml:"duplicate_pick"`
	BinOverflow           float64 `yaml:"bin_overflow"`
	Step                  float64 `yaml:"step"`
	Bonus                 float64 `yaml:"bonus"`
	Critical              float64 `yaml:"critical"`
	DuplicateCriticalPick float64 `yaml:"duplicate_critical_pick"`
	Comm                  float64 `yaml:"comm"`

	// Scales applied to the terminal and duplicate pick penalties.
	DuplicatePickScale         float64 `yaml:"duplicate_pick_scale" validate:"min=0"`
	BinOverflowScale           float64 `yaml:"bin_overflow_scale" validate:"min=0"`
	DuplicateCriticalPickScale float64 `yaml:"duplicate_critical_pick_scale" validate:"min=0"`
}

func Default() *Config {
	return &Config{
		Problem: ProblemConfig{
			MinItemSize:           1,
			MaxItemSize:           5,
			MinNumItems:           12,
			MaxNumItems:           12,
			MinBinSize:            12,
			MaxBinSize:            12,
			TotalBins:             8,
			NumberOfCriticalItems: 3,
			NumberOfCopies:        2,
			MinComms:              0,
			MaxComms:              6,
		},
		Rewards: RewardConfig{
			Success:                    10,
			DuplicatePick:              -1,
			BinOverflow:                -2,
			Step:                       1,
			Bonus:                      0.25,
			Critical:                   1,
			DuplicateCriticalPick:      -1,
			Comm:                       1,
			DuplicatePickScale:         3,
			BinOverflowScale:           0.25,
			DuplicateCriticalPickScale: 0.15,
		},
		Seed: 3,
	}
}

// Load reads the given files in order on top of the defaults and validates
// the merged result.
func Load(configFiles ...string) (*Config, error) {
	cfg := Default()
	for _, fname := range configFiles {
		data, err := os.ReadFile(fname)
		if err != nil {
			return nil, errors.Wrapf(err, "reading config %s", fname)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing config %s", fname)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidationError is returned when a configuration fails to pass validation.
type ValidationError struct {
	errorMap validator.ErrorMap
}

// ErrForField returns the validation error for the given field, keyed by its
// Go path such as "Problem.TotalBins".
func (e ValidationError) ErrForField(name string) error {
	if errs, ok := e.errorMap[name]; ok {
		return errs
	}
	return nil
}

func (e ValidationError) Error() string {
	var w bytes.Buffer

	fmt.Fprintf(&w, "validation failed")
	for f, err := range e.errorMap {
		fmt.Fprintf(&w, "   %s: %v\n", f, err)
	}
	return w.String()
}

// Validate runs the field tags and then the checks that span fields.
func (c *Config) Validate() error {
	errs := make(validator.ErrorMap)
	if err := validator.Validate(c); err != nil {
		fieldErrs, ok := err.(validator.ErrorMap)
		if !ok {
			return errors.Wrap(err, "validating config")
		}
		for f, e := range fieldErrs {
			errs[f] = e
		}
	}

	add := func(field, msg string) {
		errs[field] = append(errs[field], errors.New(msg))
	}
	p := c.Problem
	if p.MinNumItems > p.MaxNumItems {
		add("Problem.MinNumItems", "greater than max_num_items")
	}
	if p.MinItemSize > p.MaxItemSize {
		add("Problem.MinItemSize", "greater than max_item_size")
	}
	if p.MinBinSize > p.MaxBinSize {
		add("Problem.MinBinSize", "greater than max_bin_size")
	}
	if p.NumberOfCriticalItems > 0 && p.NumberOfCopies < 2 {
		add("Problem.NumberOfCopies", "critical items need at least 2 copies")
	}
	if p.NumberOfCriticalItems*p.NumberOfCopies > p.MaxNumItems {
		add("Problem.NumberOfCriticalItems", "critical copies exceed max_num_items")
	}
	if p.MinComms > p.MaxComms {
		add("Problem.MinComms", "greater than max_comms")
	}
	if p.MaxComms > p.MaxNumItems*(p.MaxNumItems-1) {
		add("Problem.MaxComms", "more edges than item pairs")
	}
	if len(errs) > 0 {
		return ValidationError{errorMap: errs}
	}
	return nil
}
