package signal

import (
	talib "github.com/markcheno/go-talib"

	"github.com/mantle-quant/mantle/internal/types"
	"github.com/mantle-quant/mantle/pkg/errors"
)

const DefaultDonchianPeriod = 20

// Donchian fires when the close breaks out of the prior period's
// close-price channel.
type Donchian struct {
	period int
}

// NewDonchian creates a new Donchian channel breakout signal.
func NewDonchian(period int) *Donchian {
	return &Donchian{
		period: period,
	}
}

// Name implements Signal.
func (s *Donchian) Name() types.SignalType {
	return types.SignalTypeDonchian
}

// Compute implements Signal.
func (s *Donchian) Compute(series []types.ContinuousBar) ([]types.SignalPoint, error) {
	if s.period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"donchian requires a positive period, got %d", s.period)
	}

	if len(series) == 0 {
		return []types.SignalPoint{}, nil
	}

	close := closes(series)
	directions := make([]types.SignalDirection, len(series))

	if len(close) <= s.period {
		return toPoints(series, s.Name(), directions, nanSeries(len(series))), nil
	}

	rollingMax := talib.Max(close, s.period)
	rollingMin := talib.Min(close, s.period)

	// Compare each close against the channel that ended on the previous bar.
	// The channel needs a full period of history before it is meaningful.
	for i := s.period; i < len(close); i++ {
		switch {
		case close[i] > rollingMax[i-1]:
			directions[i] = types.DirectionBullish
		case close[i] < rollingMin[i-1]:
			directions[i] = types.DirectionBearish
		}
	}

	return toPoints(series, s.Name(), directions, nanSeries(len(series))), nil
}
