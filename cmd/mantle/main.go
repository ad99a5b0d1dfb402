package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/mantle-quant/mantle/internal/continuous"
	"github.com/mantle-quant/mantle/internal/logger"
	"github.com/mantle-quant/mantle/pkg/pipeline"
)

// buildAction is the core logic executed by the CLI command. It assembles the
// pipeline configuration from flags and runs the continuous series build.
func buildAction(ctx context.Context, cmd *cli.Command) error {
	config := pipeline.Config{
		DataPath:    cmd.String("data"),
		OutputPath:  cmd.String("out"),
		MarketsPath: cmd.String("markets"),
		BlendWindow: int(cmd.Int("window")),
	}

	if start := cmd.Timestamp("start"); !start.IsZero() {
		config.StartDate = optional.Some(start)
	}

	if end := cmd.Timestamp("end"); !end.IsZero() {
		config.EndDate = optional.Some(end)
	}

	appLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync()

	var bar *progressbar.ProgressBar

	onProgress := func(asset string, current, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("building continuous series"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}

		bar.Describe(fmt.Sprintf("built %s", asset))

		if err := bar.Add(1); err != nil {
			appLogger.Debug("progress bar update failed")
		}
	}

	client, err := pipeline.NewClient(config, appLogger, onProgress)
	if err != nil {
		return fmt.Errorf("failed to create pipeline client: %w", err)
	}

	path, err := client.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	fmt.Printf("continuous series written to %s\n", path)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "mantle",
		Usage: "Build continuous futures series from a per-contract panel",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Path to the contract panel file (Parquet or CSV)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "out",
				Aliases:  []string{"o"},
				Usage:    "Path of the continuous series Parquet file to write",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "markets",
				Aliases:  []string{"m"},
				Usage:    "Optional market registry YAML restricting which assets are built",
				Required: false,
			},
			&cli.IntFlag{
				Name:     "window",
				Aliases:  []string{"w"},
				Usage:    "Blend window width in trading days, must be odd",
				Value:    continuous.DefaultBlendWindow,
				Required: false,
			},
			&cli.TimestampFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Inclusive start date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02", time.RFC3339},
				},
				Required: false,
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "Inclusive end date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02", time.RFC3339},
				},
				Required: false,
			},
		},
		Action: buildAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
