package types

import "time"

// ContractBar is a single daily observation for one listed futures contract.
// A given (Date, Asset) usually carries several ContractBars, one per listed
// expiry. Numeric fields use NaN to represent an absent value.
type ContractBar struct {
	// Date is the trading session date.
	Date time.Time
	// Asset is the underlying root symbol, e.g. "ES" or "GC".
	Asset string
	// Symbol identifies the individual contract, e.g. "ESH5".
	Symbol          string
	SettlementPrice float64
	OpenInterest    float64
	ClearedVolume   float64
	OpeningPrice    float64
	SessionLow      float64
	SessionHigh     float64
	LowestOffer     float64
	HighestBid      float64
}

// RankedContract is a ContractBar annotated with its open-interest rank
// within its (Date, Asset) group. Rank 1 is the front contract.
type RankedContract struct {
	ContractBar
	OIRank int
}

// ContractLeg holds the per-contract numeric fields of one side of a
// front/next pair.
type ContractLeg struct {
	Symbol          string
	SettlementPrice float64
	OpenInterest    float64
	ClearedVolume   float64
	OpeningPrice    float64
	SessionLow      float64
	SessionHigh     float64
	LowestOffer     float64
	HighestBid      float64
}

// FrontNextPair merges the front (rank 1) and next (rank 2) contract
// observations for a single (Date, Asset). Dates with fewer than two listed
// contracts never produce a pair.
type FrontNextPair struct {
	Date  time.Time
	Asset string
	Front ContractLeg
	Next  ContractLeg
	// RollFlag is true when the front contract symbol changes on the next
	// chronological date for the same asset. The last date of each asset is
	// always false since no forward observation exists.
	RollFlag bool
	// InRollWindow is true when this row falls within the configured blend
	// radius of any roll boundary in its asset partition.
	InRollWindow bool
}

// ContinuousBar is one row of the stitched continuous series for an asset.
type ContinuousBar struct {
	Date time.Time
	// Asset is the underlying root symbol the series belongs to.
	Asset string
	// Symbol is the contract actually representing the value at this date:
	// the front contract outside a roll window, the next contract inside it.
	Symbol          string
	Price           float64
	OpenInterest    float64
	ClearedVolume   float64
	OpeningPrice    float64
	SessionLow      float64
	SessionHigh     float64
	LowestOffer     float64
	HighestBid      float64
}

// Leg extracts the per-contract fields of a ContractBar.
func (c ContractBar) Leg() ContractLeg {
	return ContractLeg{
		Symbol:          c.Symbol,
		SettlementPrice: c.SettlementPrice,
		OpenInterest:    c.OpenInterest,
		ClearedVolume:   c.ClearedVolume,
		OpeningPrice:    c.OpeningPrice,
		SessionLow:      c.SessionLow,
		SessionHigh:     c.SessionHigh,
		LowestOffer:     c.LowestOffer,
		HighestBid:      c.HighestBid,
	}
}
