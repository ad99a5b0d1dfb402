// Package signal computes technical signals on top of continuous series.
package signal

import (
	"math"

	"github.com/mantle-quant/mantle/internal/types"
)

var nan = math.NaN()

// Signal computes a dated signal series from a continuous series of a single
// asset. The input must be sorted by date ascending.
type Signal interface {
	// Name returns the signal type this implementation computes.
	Name() types.SignalType
	// Compute returns one signal point per input bar.
	Compute(series []types.ContinuousBar) ([]types.SignalPoint, error)
}

func closes(series []types.ContinuousBar) []float64 {
	out := make([]float64, len(series))
	for i, bar := range series {
		out[i] = bar.Price
	}

	return out
}

func highs(series []types.ContinuousBar) []float64 {
	out := make([]float64, len(series))
	for i, bar := range series {
		out[i] = bar.SessionHigh
	}

	return out
}

func lows(series []types.ContinuousBar) []float64 {
	out := make([]float64, len(series))
	for i, bar := range series {
		out[i] = bar.SessionLow
	}

	return out
}

// crossoverDirections derives per-bar crossover signals from two indicator
// lines. A bullish signal fires on the bar where the fast line moves above
// the slow line, bearish on the bar where it moves below. Bars before warmup
// never fire.
func crossoverDirections(fast, slow []float64, warmup int) []types.SignalDirection {
	out := make([]types.SignalDirection, len(fast))

	for i := 1; i < len(fast); i++ {
		if i < warmup {
			continue
		}

		switch {
		case fast[i] > slow[i] && fast[i-1] <= slow[i-1]:
			out[i] = types.DirectionBullish
		case fast[i] < slow[i] && fast[i-1] >= slow[i-1]:
			out[i] = types.DirectionBearish
		}
	}

	return out
}

func toPoints(series []types.ContinuousBar, name types.SignalType, directions []types.SignalDirection, values []float64) []types.SignalPoint {
	points := make([]types.SignalPoint, len(series))

	for i, bar := range series {
		points[i] = types.SignalPoint{
			Time:      bar.Date,
			Asset:     bar.Asset,
			Signal:    name,
			Direction: directions[i],
			Value:     values[i],
		}
	}

	return points
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = nan
	}

	return out
}
