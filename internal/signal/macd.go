package signal

import (
	talib "github.com/markcheno/go-talib"

	"github.com/mantle-quant/mantle/internal/types"
	"github.com/mantle-quant/mantle/pkg/errors"
)

const (
	DefaultMACDFastPeriod   = 12
	DefaultMACDSlowPeriod   = 26
	DefaultMACDSignalPeriod = 9
)

// MACD fires when the MACD line crosses its signal line.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD crossover signal.
func NewMACD(fastPeriod, slowPeriod, signalPeriod int) *MACD {
	return &MACD{
		fastPeriod:   fastPeriod,
		slowPeriod:   slowPeriod,
		signalPeriod: signalPeriod,
	}
}

// Name implements Signal.
func (s *MACD) Name() types.SignalType {
	return types.SignalTypeMACD
}

// Compute implements Signal.
func (s *MACD) Compute(series []types.ContinuousBar) ([]types.SignalPoint, error) {
	if s.fastPeriod <= 0 || s.slowPeriod <= s.fastPeriod || s.signalPeriod <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"macd requires 0 < fast period < slow period and positive signal period, got %d/%d/%d",
			s.fastPeriod, s.slowPeriod, s.signalPeriod)
	}

	if len(series) == 0 {
		return []types.SignalPoint{}, nil
	}

	close := closes(series)
	warmup := s.slowPeriod + s.signalPeriod

	if len(close) < warmup {
		return toPoints(series, s.Name(), make([]types.SignalDirection, len(series)), nanSeries(len(series))), nil
	}

	macdLine, signalLine, _ := talib.Macd(close, s.fastPeriod, s.slowPeriod, s.signalPeriod)

	// Both lines are undefined until the slow EMA plus the signal EMA have
	// enough history.
	directions := crossoverDirections(macdLine, signalLine, warmup)

	return toPoints(series, s.Name(), directions, nanSeries(len(series))), nil
}
