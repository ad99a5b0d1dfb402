// Package pipeline wires the panel source, the continuous-series builder and
// the Parquet writer into a single runnable client.
package pipeline

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/mantle-quant/mantle/internal/continuous"
	"github.com/mantle-quant/mantle/internal/datasource"
	"github.com/mantle-quant/mantle/internal/logger"
	"github.com/mantle-quant/mantle/internal/market"
	"github.com/mantle-quant/mantle/internal/types"
	"github.com/mantle-quant/mantle/internal/writer"
	"github.com/mantle-quant/mantle/pkg/errors"
)

// OnAssetProgress is invoked after each asset's continuous rows have been
// written. current counts completed assets out of total.
type OnAssetProgress func(asset string, current, total int)

// Config holds the configuration for a pipeline run.
type Config struct {
	// DataPath is the contract panel input, a Parquet or CSV file.
	DataPath string `validate:"required" yaml:"data_path"`
	// OutputPath is where the continuous series Parquet file is written.
	OutputPath string `validate:"required" yaml:"output_path"`
	// MarketsPath optionally restricts the run to assets listed in a market
	// registry YAML file.
	MarketsPath string `yaml:"markets_path"`
	// BlendWindow is the roll transition width in trading days, odd.
	BlendWindow int `validate:"required,min=1" yaml:"blend_window"`
	// StartDate and EndDate bound the panel read, inclusive on both ends.
	StartDate optional.Option[time.Time] `yaml:"start_date"`
	EndDate   optional.Option[time.Time] `yaml:"end_date"`
}

// DefaultConfig returns a config with the standard blend window. DataPath and
// OutputPath still need to be filled in.
func DefaultConfig() Config {
	return Config{BlendWindow: continuous.DefaultBlendWindow}
}

// Client runs the panel-to-continuous-series pipeline.
type Client struct {
	config     Config
	builder    *continuous.Builder
	logger     *logger.Logger
	onProgress OnAssetProgress
}

// NewClient validates the configuration and returns a pipeline client.
// onProgress may be nil.
func NewClient(config Config, log *logger.Logger, onProgress OnAssetProgress) (*Client, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid pipeline configuration", err)
	}

	if config.StartDate.IsSome() && config.EndDate.IsSome() &&
		config.StartDate.Unwrap().After(config.EndDate.Unwrap()) {
		return nil, errors.Newf(errors.ErrCodeInvalidDateRange, "start date %s is after end date %s",
			config.StartDate.Unwrap().Format(time.DateOnly), config.EndDate.Unwrap().Format(time.DateOnly))
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	builder, err := continuous.NewBuilder(continuous.Config{BlendWindow: config.BlendWindow}, log)
	if err != nil {
		return nil, err
	}

	return &Client{
		config:     config,
		builder:    builder,
		logger:     log,
		onProgress: onProgress,
	}, nil
}

// Run executes the pipeline and returns the path of the written Parquet file.
// The context cancels the run between stages.
func (c *Client) Run(ctx context.Context) (string, error) {
	source, err := datasource.NewPanelSource(":memory:", c.logger)
	if err != nil {
		return "", err
	}
	defer source.Close()

	if err := source.Initialize(c.config.DataPath); err != nil {
		return "", err
	}

	panel, err := source.ReadPanel(c.config.StartDate, c.config.EndDate)
	if err != nil {
		return "", err
	}

	panel, err = c.filterByMarkets(panel)
	if err != nil {
		return "", err
	}

	if len(panel) == 0 {
		return "", errors.Newf(errors.ErrCodeNoDataFound, "no panel rows found in %s for the requested range", c.config.DataPath)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	series, err := c.builder.Build(panel)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	return c.write(ctx, series)
}

// filterByMarkets drops panel rows whose asset is absent from the market
// registry. A run without MarketsPath keeps every asset.
func (c *Client) filterByMarkets(panel []types.ContractBar) ([]types.ContractBar, error) {
	if c.config.MarketsPath == "" {
		return panel, nil
	}

	markets, err := market.LoadMarkets(c.config.MarketsPath)
	if err != nil {
		return nil, err
	}

	filtered := make([]types.ContractBar, 0, len(panel))
	dropped := make(map[string]struct{})

	for _, bar := range panel {
		if _, ok := markets[bar.Asset]; ok {
			filtered = append(filtered, bar)
		} else {
			dropped[bar.Asset] = struct{}{}
		}
	}

	for asset := range dropped {
		c.logger.Warn("asset not in market registry, skipping",
			zap.String("asset", asset),
			zap.String("markets_path", c.config.MarketsPath))
	}

	return filtered, nil
}

// write streams the series into the Parquet writer, reporting progress as
// each asset's rows complete. The series arrives sorted by (asset, date).
func (c *Client) write(ctx context.Context, series []types.ContinuousBar) (string, error) {
	w := writer.NewDuckDBWriter(c.config.OutputPath)
	if err := w.Initialize(); err != nil {
		return "", err
	}

	defer func() {
		if err := w.Close(); err != nil {
			c.logger.Warn("failed to close writer", zap.Error(err))
		}
	}()

	total := countAssets(series)
	completed := 0

	for i, bar := range series {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if err := w.Write(bar); err != nil {
			return "", err
		}

		lastOfAsset := i == len(series)-1 || series[i+1].Asset != bar.Asset
		if lastOfAsset {
			completed++

			if c.onProgress != nil {
				c.onProgress(bar.Asset, completed, total)
			}
		}
	}

	path, err := w.Finalize()
	if err != nil {
		return "", err
	}

	c.logger.Info("continuous series written",
		zap.String("path", path),
		zap.Int("rows", len(series)),
		zap.Int("assets", total))

	return path, nil
}

func countAssets(series []types.ContinuousBar) int {
	count := 0

	for i, bar := range series {
		if i == 0 || series[i-1].Asset != bar.Asset {
			count++
		}
	}

	return count
}
