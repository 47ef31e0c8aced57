package montecarlo

import (
	"math/rand"
	"time"
)

// NormalSource yields standard-normal variates. Implementations must be
// deterministic for a given seed so paths can be reproduced.
type NormalSource interface {
	NormFloat64() float64
}

// NewSeededSource returns a deterministic source for seed.
func NewSeededSource(seed int64) NormalSource {
	return rand.New(rand.NewSource(seed))
}

// NewSource returns a source seeded from cfg.Seed, or from the clock when unset.
func NewSource(cfg Config) NormalSource {
	if cfg.Seed != nil {
		return NewSeededSource(*cfg.Seed)
	}
	return NewSeededSource(time.Now().UnixNano())
}
