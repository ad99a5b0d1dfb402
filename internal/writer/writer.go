// Package writer persists the continuous series produced by the builder.
package writer

import "github.com/mantle-quant/mantle/internal/types"

// ContinuousWriter is the interface for continuous series storage backends.
type ContinuousWriter interface {
	// Initialize prepares the writer for incoming rows.
	Initialize() error
	// Write persists a single continuous bar.
	Write(bar types.ContinuousBar) error
	// Finalize flushes all written rows to the output file and returns its path.
	Finalize() (string, error)
	// Close cleans up all resources held by the writer.
	Close() error
}
