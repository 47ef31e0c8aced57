// Package montecarlo generates forward price paths under geometric Brownian motion.
package montecarlo

import "math"

const (
	DefaultHorizonMonths = 6
	DefaultStepDays      = 1
	// DaysPerMonth converts a horizon in months into simulated days.
	DaysPerMonth = 30
)

// Config controls path generation. Build it with BuildConfig; a zero Config is
// normalized to the defaults before use.
type Config struct {
	HorizonMonths int    `yaml:"horizon_months" json:"horizonMonths" default:"6"`
	StepDays      int    `yaml:"step_days" json:"stepDays" default:"1"`
	Seed          *int64 `yaml:"seed" json:"seed,omitempty"`
}

// Overrides carries caller-supplied values; nil fields keep the default.
type Overrides struct {
	HorizonMonths *int
	StepDays      *int
	Seed          *int64
}

// IsValidHorizon reports whether months is one of 1, 3, 6, 12, 24 or 36.
func IsValidHorizon(months int) bool {
	switch months {
	case 1, 3, 6, 12, 24, 36:
		return true
	}
	return false
}

// BuildConfig merges overrides onto the defaults and returns a new validated
// Config. An unsupported horizon snaps to 6 months; stepDays is clamped to >= 1.
func BuildConfig(o Overrides) Config {
	cfg := Config{HorizonMonths: DefaultHorizonMonths, StepDays: DefaultStepDays}
	if o.HorizonMonths != nil {
		cfg.HorizonMonths = *o.HorizonMonths
	}
	if o.StepDays != nil {
		cfg.StepDays = *o.StepDays
	}
	if o.Seed != nil {
		seed := *o.Seed
		cfg.Seed = &seed
	}
	return cfg.Normalized()
}

// WithSeed returns a copy of c using seed.
func (c Config) WithSeed(seed int64) Config {
	c.Seed = &seed
	return c
}

// Steps is max(1, round(horizonMonths*30/stepDays)).
func (c Config) Steps() int {
	c = c.Normalized()
	steps := int(math.Round(float64(c.HorizonMonths*DaysPerMonth) / float64(c.StepDays)))
	if steps < 1 {
		return 1
	}
	return steps
}

// HorizonDays is the simulated horizon in days.
func (c Config) HorizonDays() int {
	return c.Normalized().HorizonMonths * DaysPerMonth
}

// Normalized snaps an unsupported horizon to the default and clamps StepDays to >= 1.
func (c Config) Normalized() Config {
	if !IsValidHorizon(c.HorizonMonths) {
		c.HorizonMonths = DefaultHorizonMonths
	}
	if c.StepDays < 1 {
		c.StepDays = DefaultStepDays
	}
	if c.Seed != nil {
		seed := *c.Seed
		c.Seed = &seed
	}
	return c
}
