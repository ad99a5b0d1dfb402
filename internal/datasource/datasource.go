// Package datasource loads per-contract futures panels from Parquet or CSV
// files through DuckDB. It is the boundary between storage and the
// continuous-series builder: the builder itself never performs I/O.
package datasource

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/mantle-quant/mantle/internal/types"
)

// PanelSource provides read access to a per-contract daily panel.
type PanelSource interface {
	// Initialize points the source at a panel file. The file must carry the
	// full contract-panel schema; a missing column fails here, not later.
	Initialize(path string) error
	// ReadPanel returns the panel rows within the optional date bounds,
	// sorted by (asset, date, symbol).
	ReadPanel(start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.ContractBar, error)
	// GetAssets returns the distinct underlying root symbols in the panel.
	GetAssets() ([]string, error)
	// Count returns the number of panel rows within the optional date bounds.
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close releases the underlying database handle.
	Close() error
}
