package continuous

import "github.com/mantle-quant/mantle/internal/types"

// detectRolls flags roll boundaries within a single asset partition sorted
// ascending by date. A row is flagged when its front contract symbol differs
// from the front contract symbol of the immediately following row, i.e. the
// flag sits on the last date before the switch. The final row has no forward
// observation and is never flagged: a roll occurring exactly at the right
// edge of the data is invisible until the following date arrives. That edge
// effect is inherent to the one-step lookahead and is left as-is rather than
// backfilled with a guess.
func detectRolls(partition []types.FrontNextPair) {
	for i := range partition {
		if i+1 < len(partition) {
			partition[i].RollFlag = partition[i].Front.Symbol != partition[i+1].Front.Symbol
		} else {
			partition[i].RollFlag = false
		}
	}
}

// applyRollWindow marks every row within halfWindow index positions of a
// flagged row as part of a roll window. The expansion is index-based within
// the partition, not calendar-based, and clips at the partition edges.
func applyRollWindow(partition []types.FrontNextPair, halfWindow int) {
	for i := range partition {
		lo := i - halfWindow
		if lo < 0 {
			lo = 0
		}

		hi := i + halfWindow
		if hi > len(partition)-1 {
			hi = len(partition) - 1
		}

		inWindow := false

		for j := lo; j <= hi; j++ {
			if partition[j].RollFlag {
				inWindow = true

				break
			}
		}

		partition[i].InRollWindow = inWindow
	}
}
