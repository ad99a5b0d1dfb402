package signal

import (
	talib "github.com/markcheno/go-talib"

	"github.com/mantle-quant/mantle/internal/types"
	"github.com/mantle-quant/mantle/pkg/errors"
)

const (
	DefaultMAFastPeriod = 10
	DefaultMASlowPeriod = 20
)

// MACrossover fires when a fast simple moving average crosses a slow one.
type MACrossover struct {
	fastPeriod int
	slowPeriod int
}

// NewMACrossover creates a new moving average crossover signal.
func NewMACrossover(fastPeriod, slowPeriod int) *MACrossover {
	return &MACrossover{
		fastPeriod: fastPeriod,
		slowPeriod: slowPeriod,
	}
}

// Name implements Signal.
func (s *MACrossover) Name() types.SignalType {
	return types.SignalTypeMACrossover
}

// Compute implements Signal.
func (s *MACrossover) Compute(series []types.ContinuousBar) ([]types.SignalPoint, error) {
	if s.fastPeriod <= 0 || s.slowPeriod <= s.fastPeriod {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"ma_crossover requires 0 < fast period < slow period, got %d/%d", s.fastPeriod, s.slowPeriod)
	}

	if len(series) == 0 {
		return []types.SignalPoint{}, nil
	}

	close := closes(series)

	if len(close) < s.slowPeriod {
		return toPoints(series, s.Name(), make([]types.SignalDirection, len(series)), nanSeries(len(series))), nil
	}

	fastMA := talib.Sma(close, s.fastPeriod)
	slowMA := talib.Sma(close, s.slowPeriod)

	// The slow MA is undefined before slowPeriod bars, so no crossover can
	// fire there.
	directions := crossoverDirections(fastMA, slowMA, s.slowPeriod)

	return toPoints(series, s.Name(), directions, nanSeries(len(series))), nil
}
