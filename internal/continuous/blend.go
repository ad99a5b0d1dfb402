package continuous

import "github.com/mantle-quant/mantle/internal/types"

// blendPartition materializes the continuous series for a single asset
// partition that already carries roll flags and window marks. Rows outside a
// roll window pass the front contract through unchanged. Rows inside a roll
// window take an equal-weight mix of front and next for every numeric field
// and adopt the next contract's symbol. The mix is flat 50/50 across the
// whole window, not a ramp, so the output stays deterministic under window
// resizing. NaN in either leg propagates into the blended value.
func blendPartition(partition []types.FrontNextPair) []types.ContinuousBar {
	out := make([]types.ContinuousBar, len(partition))

	for i := range partition {
		p := &partition[i]

		if p.InRollWindow {
			out[i] = types.ContinuousBar{
				Date:          p.Date,
				Asset:         p.Asset,
				Symbol:        p.Next.Symbol,
				Price:         mix(p.Front.SettlementPrice, p.Next.SettlementPrice),
				OpenInterest:  mix(p.Front.OpenInterest, p.Next.OpenInterest),
				ClearedVolume: mix(p.Front.ClearedVolume, p.Next.ClearedVolume),
				OpeningPrice:  mix(p.Front.OpeningPrice, p.Next.OpeningPrice),
				SessionLow:    mix(p.Front.SessionLow, p.Next.SessionLow),
				SessionHigh:   mix(p.Front.SessionHigh, p.Next.SessionHigh),
				LowestOffer:   mix(p.Front.LowestOffer, p.Next.LowestOffer),
				HighestBid:    mix(p.Front.HighestBid, p.Next.HighestBid),
			}

			continue
		}

		out[i] = types.ContinuousBar{
			Date:          p.Date,
			Asset:         p.Asset,
			Symbol:        p.Front.Symbol,
			Price:         p.Front.SettlementPrice,
			OpenInterest:  p.Front.OpenInterest,
			ClearedVolume: p.Front.ClearedVolume,
			OpeningPrice:  p.Front.OpeningPrice,
			SessionLow:    p.Front.SessionLow,
			SessionHigh:   p.Front.SessionHigh,
			LowestOffer:   p.Front.LowestOffer,
			HighestBid:    p.Front.HighestBid,
		}
	}

	return out
}

func mix(front, next float64) float64 {
	return 0.5*front + 0.5*next
}
