package continuous

import "github.com/mantle-quant/mantle/internal/types"

// extractPairs projects the rank-1 (front) and rank-2 (next) contracts of
// every (date, asset) group into a single merged row. Groups without a rank-2
// contract produce no pair: a continuous value cannot be constructed for
// them, which truncates the series at the edges of an asset's listed life.
// That truncation is intentional and must not be papered over with fills.
//
// The input must be ordered the way rankOpenInterest leaves it: by asset,
// date, then rank. The output preserves that (asset, date) order.
func extractPairs(ranked []types.RankedContract) []types.FrontNextPair {
	pairs := make([]types.FrontNextPair, 0, len(ranked)/2)

	for start := 0; start < len(ranked); {
		end := start + 1
		for end < len(ranked) && sameGroup(&ranked[start], &ranked[end]) {
			end++
		}

		var front, next *types.RankedContract

		for i := start; i < end; i++ {
			switch ranked[i].OIRank {
			case 1:
				front = &ranked[i]
			case 2:
				next = &ranked[i]
			}
		}

		if front != nil && next != nil {
			pairs = append(pairs, types.FrontNextPair{
				Date:  front.Date,
				Asset: front.Asset,
				Front: front.Leg(),
				Next:  next.Leg(),
			})
		}

		start = end
	}

	return pairs
}
