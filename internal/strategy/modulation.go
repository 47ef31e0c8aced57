package strategy

import (
	"math"

	"StrategySentinel/internal/calculator"
	"StrategySentinel/internal/montecarlo"
)

// maxModulationAmplitude caps the cosmetic wave at +/-15% of the trend price.
const maxModulationAmplitude = 0.15

// SymbolModulation is a cosmetic, asset-specific wave layered on projected
// prices so that different tokens do not draw identical curves. It is derived
// from HashSymbol and carries no statistical meaning; drift and volatility
// estimates are never adjusted by it.
type SymbolModulation struct {
	Phase     float64 `json:"phase"`
	Amplitude float64 `json:"amplitude"`
}

// NewSymbolModulation derives the wave phase from the symbol hash and scales
// its amplitude by the per-step volatility.
func NewSymbolModulation(symbol string, volatility, stepDays float64) SymbolModulation {
	h := calculator.HashSymbol(symbol)
	amp := volatility * math.Sqrt(math.Max(stepDays, 1))
	if !finite(amp) || amp < 0 {
		amp = 0
	}
	if amp > maxModulationAmplitude {
		amp = maxModulationAmplitude
	}
	return SymbolModulation{
		Phase:     float64(h%360) * math.Pi / 180,
		Amplitude: amp,
	}
}

// Factor returns the multiplicative wave at step out of steps; it is exactly
// 1 at step 0.
func (m SymbolModulation) Factor(step, steps int) float64 {
	if steps <= 0 {
		return 1
	}
	t := 2 * math.Pi * float64(step) / float64(steps)
	return 1 + m.Amplitude*(math.Sin(m.Phase+t)-math.Sin(m.Phase))
}

// projectForwardPrices extends lastPrice for steps of stepDays each along the
// per-day drift, with the cosmetic modulation applied on top. Returned prices
// are indexed 0..steps-1 for steps 1..steps.
func projectForwardPrices(lastPrice, dailyDrift, stepDays float64, steps int, mod SymbolModulation) []float64 {
	prices := make([]float64, steps)
	for i := 1; i <= steps; i++ {
		trendPrice := lastPrice * math.Exp(dailyDrift*stepDays*float64(i))
		p := trendPrice * mod.Factor(i, steps)
		if !finite(p) || p < montecarlo.MinPrice {
			p = montecarlo.MinPrice
		}
		prices[i-1] = p
	}
	return prices
}
