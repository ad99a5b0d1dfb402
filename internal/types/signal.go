package types

import "time"

type SignalType string

const (
	// SignalTypeMACrossover is a fast/slow simple moving average crossover.
	SignalTypeMACrossover SignalType = "ma_crossover"
	// SignalTypeMACD is a MACD line / signal line crossover.
	SignalTypeMACD SignalType = "macd"
	// SignalTypeDonchian is a Donchian channel breakout.
	SignalTypeDonchian SignalType = "donchian"
	// SignalTypeADX is the average directional index trend strength.
	SignalTypeADX SignalType = "adx"
)

// SignalDirection encodes the direction of a crossover or breakout signal.
type SignalDirection int

const (
	DirectionBearish SignalDirection = -1
	DirectionNone    SignalDirection = 0
	DirectionBullish SignalDirection = 1
)

// SignalPoint is one dated observation of a computed signal series.
type SignalPoint struct {
	// Time is the date of the continuous bar the signal was computed on.
	Time time.Time
	// Asset is the underlying root symbol.
	Asset string
	// Signal is the signal type that produced this point.
	Signal SignalType
	// Direction is -1, 0 or 1 for crossover/breakout signals.
	Direction SignalDirection
	// Value carries the raw indicator value where one exists (e.g. ADX
	// strength); NaN otherwise.
	Value float64
}
