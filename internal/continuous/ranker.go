package continuous

import (
	"math"
	"sort"

	"github.com/mantle-quant/mantle/internal/types"
)

// rankOpenInterest assigns a dominance rank to every contract within its
// (date, asset) group: rank 1 is the contract with the highest open interest,
// rank 2 the second highest, and so on. Exact open-interest ties are broken
// symbol-ascending so ranking never depends on input order. Contracts with
// missing (NaN) open interest rank after every populated contract. Groups
// with a single contract still receive rank 1.
func rankOpenInterest(panel []types.ContractBar) []types.RankedContract {
	ranked := make([]types.RankedContract, len(panel))
	for i, bar := range panel {
		ranked[i] = types.RankedContract{ContractBar: bar, OIRank: 0}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := &ranked[i], &ranked[j]
		if a.Asset != b.Asset {
			return a.Asset < b.Asset
		}

		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}

		return dominates(a, b)
	})

	rank := 0

	for i := range ranked {
		if i == 0 || !sameGroup(&ranked[i-1], &ranked[i]) {
			rank = 0
		}

		rank++
		ranked[i].OIRank = rank
	}

	return ranked
}

// dominates orders two contracts of the same (date, asset) group: open
// interest descending, NaN last, symbol ascending on ties.
func dominates(a, b *types.RankedContract) bool {
	aNaN, bNaN := math.IsNaN(a.OpenInterest), math.IsNaN(b.OpenInterest)

	switch {
	case aNaN && bNaN:
		return a.Symbol < b.Symbol
	case aNaN:
		return false
	case bNaN:
		return true
	case a.OpenInterest != b.OpenInterest:
		return a.OpenInterest > b.OpenInterest
	default:
		return a.Symbol < b.Symbol
	}
}

func sameGroup(a, b *types.RankedContract) bool {
	return a.Asset == b.Asset && a.Date.Equal(b.Date)
}
