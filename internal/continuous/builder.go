// Package continuous constructs a single stitched daily series per underlying
// asset from a panel of per-contract futures observations. The front contract
// is selected by open interest; roll transitions are smoothed across a
// configurable blending window so the stitched series carries no price jump
// caused purely by the contract switch.
package continuous

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mantle-quant/mantle/internal/logger"
	"github.com/mantle-quant/mantle/internal/types"
	"github.com/mantle-quant/mantle/pkg/errors"
)

// DefaultBlendWindow spreads the roll transition over five trading days, two
// on each side of the roll boundary.
const DefaultBlendWindow = 5

// Config controls the continuous-series construction. BlendWindow is the
// only tunable this component owns.
type Config struct {
	// BlendWindow is the total width of the roll transition in trading days.
	// Must be a positive odd integer so the window spreads evenly around the
	// roll boundary.
	BlendWindow int `yaml:"blend_window" validate:"required,min=1"`
}

// DefaultConfig returns the standard five-day blend configuration.
func DefaultConfig() Config {
	return Config{BlendWindow: DefaultBlendWindow}
}

// Builder is the continuous-series builder. It is stateless between calls:
// identical input panels always produce identical output.
type Builder struct {
	blendWindow int
	log         *logger.Logger
}

// NewBuilder validates the configuration and returns a Builder.
func NewBuilder(cfg Config, log *logger.Logger) (*Builder, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid builder configuration", err)
	}

	if cfg.BlendWindow%2 == 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidBlendWindow,
			"blend window must be odd, got %d", cfg.BlendWindow)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Builder{
		blendWindow: cfg.BlendWindow,
		log:         log,
	}, nil
}

// Build transforms a per-contract panel into the continuous series, one row
// per (date, asset). Input rows may arrive in any order; the output is
// canonically sorted by (asset, date). Dates where an asset lists fewer than
// two contracts are absent from the output.
//
// Asset partitions are independent of each other, so roll detection, window
// expansion and blending run concurrently per asset.
func (b *Builder) Build(panel []types.ContractBar) ([]types.ContinuousBar, error) {
	if err := validatePanel(panel); err != nil {
		return nil, err
	}

	ranked := rankOpenInterest(panel)
	pairs := extractPairs(ranked)

	if len(pairs) == 0 {
		b.log.Warn("no (date, asset) group lists two contracts, continuous series is empty",
			zap.Int("panel_rows", len(panel)))

		return []types.ContinuousBar{}, nil
	}

	partitions := partitionByAsset(pairs)
	halfWindow := (b.blendWindow - 1) / 2
	results := make([][]types.ContinuousBar, len(partitions))

	var g errgroup.Group

	for i, partition := range partitions {
		g.Go(func() error {
			detectRolls(partition)
			applyRollWindow(partition, halfWindow)
			results[i] = blendPartition(partition)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBlending, "blending failed", err)
	}

	out := make([]types.ContinuousBar, 0, len(pairs))
	for _, rows := range results {
		out = append(out, rows...)
	}

	b.log.Debug("continuous series built",
		zap.Int("panel_rows", len(panel)),
		zap.Int("pair_rows", len(pairs)),
		zap.Int("assets", len(partitions)),
		zap.Int("blend_window", b.blendWindow))

	return out, nil
}

// validatePanel fails fast on structurally broken input rather than letting
// bad rows surface later as unexplained NaNs. Numeric garbage (negative open
// interest and the like) is deliberately not checked here.
func validatePanel(panel []types.ContractBar) error {
	for i, bar := range panel {
		switch {
		case bar.Asset == "":
			return errors.Newf(errors.ErrCodeSchema, "ranking: panel row %d has empty asset", i)
		case bar.Symbol == "":
			return errors.Newf(errors.ErrCodeSchema, "ranking: panel row %d has empty symbol", i)
		case bar.Date.IsZero():
			return errors.Newf(errors.ErrCodeSchema, "ranking: panel row %d has zero date", i)
		}
	}

	return nil
}

// partitionByAsset slices the pair series into contiguous per-asset
// sub-series. The input is already sorted by (asset, date), so each partition
// is a window into the original slice.
func partitionByAsset(pairs []types.FrontNextPair) [][]types.FrontNextPair {
	var partitions [][]types.FrontNextPair

	start := 0

	for i := 1; i <= len(pairs); i++ {
		if i == len(pairs) || pairs[i].Asset != pairs[start].Asset {
			partitions = append(partitions, pairs[start:i])
			start = i
		}
	}

	return partitions
}
