package strategy

import (
	"github.com/shopspring/decimal"

	"StrategySentinel/internal/calculator"
	"StrategySentinel/internal/model"
)

const (
	// OverlayWindowDays is the trailing window for the overlay's running high.
	OverlayWindowDays = 30
	// OverlayMinSpacingDays is the minimum gap between two overlay buys.
	OverlayMinSpacingDays = 5
)

// SimulateDipOverlay is the point-level dip simulator used for chart overlays.
// A buy fires when the price is at least dipThresholdPct percent below the
// trailing 30-point high and at least 5 points have passed since the previous
// buy. The budget is split evenly in whole cents and the last buy absorbs the
// rounding remainder, so the amounts sum to the budget exactly.
func SimulateDipOverlay(points []model.TimeSeriesPoint, budget, dipThresholdPct float64) model.DipOverlay {
	overlay := emptyOverlay()
	if !positive(budget) || !positive(dipThresholdPct) || len(points) == 0 {
		return overlay
	}

	highs := calculator.RollingMax(calculator.PointPrices(points), OverlayWindowDays)
	lastIdx := -1
	for i, pt := range points {
		high := highs[i]
		if !positive(pt.Price) || !positive(high) {
			continue
		}
		drawdownPct := (high - pt.Price) / high * 100
		if drawdownPct < dipThresholdPct {
			continue
		}
		if lastIdx >= 0 && i-lastIdx < OverlayMinSpacingDays {
			continue
		}
		overlay.Buys = append(overlay.Buys, model.DipBuy{
			Index:       i,
			Date:        pt.Date,
			Price:       pt.Price,
			DrawdownPct: drawdownPct,
		})
		lastIdx = i
	}
	if len(overlay.Buys) == 0 {
		return overlay
	}

	total := decimal.NewFromFloat(budget)
	n := int64(len(overlay.Buys))
	share := total.Div(decimal.NewFromInt(n)).RoundDown(2)
	last := total.Sub(share.Mul(decimal.NewFromInt(n - 1)))

	invested := decimal.Zero
	quantity := 0.0
	for i := range overlay.Buys {
		amount := share
		if i == len(overlay.Buys)-1 {
			amount = last
		}
		invested = invested.Add(amount)
		b := &overlay.Buys[i]
		b.Amount = amount.InexactFloat64()
		b.Quantity = safeDiv(b.Amount, b.Price)
		quantity += b.Quantity
	}
	overlay.TotalInvested = invested.InexactFloat64()
	overlay.TotalQuantity = quantity
	overlay.AveragePrice = safeDiv(overlay.TotalInvested, quantity)
	return overlay
}

func emptyOverlay() model.DipOverlay {
	return model.DipOverlay{Buys: []model.DipBuy{}}
}
