package indicator

import (
	"golang-screener/internal/dto"
	"math"
)

const (
	ATRPeriod = 14
	EMA9Len   = 9
	EMA20Len  = 20
)

// Round2 rounds to cent / two-decimal precision. Ratios are rounded only
// after multiplying, never on intermediate values.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SimpleAverageEMA is a simple moving average over the trailing n closes.
// The screening formulas call this quantity "EMA" and the name is kept for
// output compatibility; the math is deliberately NOT exponential. Fixing it
// to a true exponential average would change screening outcomes.
func SimpleAverageEMA(closes []float64, n int) float64 {
	if len(closes) == 0 {
		return 0
	}
	if n > len(closes) {
		n = len(closes)
	}
	window := closes[len(closes)-n:]
	sum := 0.0
	for _, c := range window {
		sum += c
	}
	return sum / float64(n)
}

// VWAP returns the volume-weighted price of the latest bar, falling back to
// lastPrice when the bar carries no VWAP.
func VWAP(bars []dto.AggBar, lastPrice float64) float64 {
	if len(bars) == 0 {
		return lastPrice
	}
	vw := bars[len(bars)-1].VWAP
	if vw <= 0 {
		return lastPrice
	}
	return vw
}

// TrueRange is Wilder's true range for one bar.
func TrueRange(high, low, prevClose float64) float64 {
	return math.Max(high-low, math.Max(math.Abs(high-prevClose), math.Abs(low-prevClose)))
}

// ATR is the arithmetic mean of per-bar true range over the trailing
// `period` bars (not Wilder-smoothed). The very first bar in the window has
// no previous close and uses high-low.
func ATR(bars []dto.AggBar, period int) float64 {
	if len(bars) == 0 {
		return 0
	}
	if period > len(bars) {
		period = len(bars)
	}
	window := bars[len(bars)-period:]
	sum := 0.0
	for i, bar := range window {
		if i == 0 {
			sum += bar.High - bar.Low
			continue
		}
		sum += TrueRange(bar.High, bar.Low, window[i-1].Close)
	}
	return sum / float64(period)
}

// GapPercent is (last - prevClose) / prevClose * 100, unrounded.
func GapPercent(lastPrice, previousClose float64) float64 {
	if previousClose <= 0 {
		return 0
	}
	return (lastPrice - previousClose) / previousClose * 100
}

// RelativeVolume is observed volume over the trailing average baseline.
func RelativeVolume(volume, avgVolume float64) float64 {
	if avgVolume <= 0 {
		return 0
	}
	return volume / avgVolume
}

// Closes extracts the close series from daily bars.
func Closes(bars []dto.AggBar) []float64 {
	closes := make([]float64, 0, len(bars))
	for _, b := range bars {
		closes = append(closes, b.Close)
	}
	return closes
}

// Trend classifies an intraday percent change as a benchmark trend,
// threshold +-0.3%.
func Trend(changePercent float64) string {
	switch {
	case changePercent > 0.3:
		return dto.TrendBullish
	case changePercent < -0.3:
		return dto.TrendBearish
	default:
		return dto.TrendNeutral
	}
}

// SameDirection reports whether two signed moves point the same way.
func SameDirection(a, b float64) bool {
	return (a >= 0 && b >= 0) || (a < 0 && b < 0)
}
