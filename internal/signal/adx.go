package signal

import (
	talib "github.com/markcheno/go-talib"

	"github.com/mantle-quant/mantle/internal/types"
	"github.com/mantle-quant/mantle/pkg/errors"
)

const DefaultADXPeriod = 14

// ADX reports trend strength through the average directional index. The
// direction of each point follows the dominant directional indicator
// (+DI vs -DI), and the value carries the raw ADX strength.
type ADX struct {
	period int
}

// NewADX creates a new average directional index signal.
func NewADX(period int) *ADX {
	return &ADX{
		period: period,
	}
}

// Name implements Signal.
func (s *ADX) Name() types.SignalType {
	return types.SignalTypeADX
}

// Compute implements Signal.
func (s *ADX) Compute(series []types.ContinuousBar) ([]types.SignalPoint, error) {
	if s.period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"adx requires a positive period, got %d", s.period)
	}

	if len(series) == 0 {
		return []types.SignalPoint{}, nil
	}

	if len(series) < s.period+1 {
		asset := series[0].Asset

		return nil, errors.NewInsufficientDataErrorf(s.period+1, len(series), asset,
			"adx needs at least %d bars for asset %s, got %d", s.period+1, asset, len(series))
	}

	high := highs(series)
	low := lows(series)
	close := closes(series)

	adx := talib.Adx(high, low, close, s.period)
	plusDI := talib.PlusDI(high, low, close, s.period)
	minusDI := talib.MinusDI(high, low, close, s.period)

	// The library pads the warmup region with zeros rather than NaN. ADX
	// needs two full periods of history before its first defined value.
	warmup := 2 * s.period

	directions := make([]types.SignalDirection, len(series))
	values := nanSeries(len(series))

	for i := warmup; i < len(series); i++ {
		values[i] = adx[i]

		switch {
		case plusDI[i] > minusDI[i]:
			directions[i] = types.DirectionBullish
		case plusDI[i] < minusDI[i]:
			directions[i] = types.DirectionBearish
		}
	}

	return toPoints(series, s.Name(), directions, values), nil
}
