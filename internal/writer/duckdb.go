package writer

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/mantle-quant/mantle/internal/types"
	"github.com/mantle-quant/mantle/pkg/errors"
)

// DuckDBWriter buffers continuous bars in an in-memory DuckDB table and
// exports them as a single Parquet file on Finalize.
type DuckDBWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	outputPath string
}

// NewDuckDBWriter creates a writer targeting the given Parquet output path.
func NewDuckDBWriter(outputPath string) *DuckDBWriter {
	return &DuckDBWriter{
		outputPath: outputPath,
	}
}

// Initialize sets up the in-memory table, begins a transaction and prepares
// the insert statement.
func (w *DuckDBWriter) Initialize() (err error) {
	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriterNotInitialized, "failed to open DuckDB connection", err)
	}

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS continuous_series (
			id TEXT,
			date DATE,
			asset TEXT,
			symbol TEXT,
			price DOUBLE,
			open_interest DOUBLE,
			cleared_volume DOUBLE,
			opening_price DOUBLE,
			trading_session_low_price DOUBLE,
			trading_session_high_price DOUBLE,
			lowest_offer DOUBLE,
			highest_bid DOUBLE
		)
	`)
	if err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeWriterNotInitialized, "failed to create table", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeWriterNotInitialized, "failed to begin transaction", err)
	}

	w.stmt, err = w.tx.Prepare(`
		INSERT INTO continuous_series (
			id, date, asset, symbol, price, open_interest, cleared_volume,
			opening_price, trading_session_low_price, trading_session_high_price,
			lowest_offer, highest_bid
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return errors.Wrap(errors.ErrCodeWriterNotInitialized, "failed to prepare statement", err)
	}

	return nil
}

// Write persists a single continuous bar using the prepared statement within
// the transaction.
func (w *DuckDBWriter) Write(bar types.ContinuousBar) error {
	if w.stmt == nil {
		return errors.New(errors.ErrCodeWriterNotInitialized, "writer not initialized or statement is nil")
	}

	id := uuid.New().String()

	_, err := w.stmt.Exec(
		id,
		bar.Date,
		bar.Asset,
		bar.Symbol,
		bar.Price,
		bar.OpenInterest,
		bar.ClearedVolume,
		bar.OpeningPrice,
		bar.SessionLow,
		bar.SessionHigh,
		bar.LowestOffer,
		bar.HighestBid,
	)
	if err != nil {
		// Don't rollback here, let Finalize handle it or allow further writes
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to insert continuous bar", err)
	}

	return nil
}

// Finalize commits the transaction and exports the data to a Parquet file.
func (w *DuckDBWriter) Finalize() (string, error) {
	if w.tx == nil {
		return "", errors.New(errors.ErrCodeWriterNotInitialized, "writer not initialized or transaction is nil")
	}

	if err := w.tx.Commit(); err != nil {
		w.tx.Rollback()

		return "", errors.Wrap(errors.ErrCodeWriteFailed, "failed to commit transaction", err)
	}

	w.tx = nil

	_, err := w.db.Exec(fmt.Sprintf(`COPY continuous_series TO '%s' (FORMAT PARQUET)`, w.outputPath))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, "failed to export to Parquet", err)
	}

	return w.outputPath, nil
}

// Close cleans up resources used by the writer.
func (w *DuckDBWriter) Close() error {
	var closeErrors []error

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Errorf("failed to close statement: %w", err))
		}

		w.stmt = nil
	}

	// If the transaction is still active (Finalize wasn't called or failed),
	// roll it back before closing.
	if w.tx != nil {
		w.tx.Rollback()
		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Errorf("failed to close db connection: %w", err))
		}

		w.db = nil
	}

	if len(closeErrors) > 0 {
		errMsg := "errors occurred during close:"
		for _, e := range closeErrors {
			errMsg += fmt.Sprintf("\n- %v", e)
		}

		return errors.New(errors.ErrCodeWriteFailed, errMsg)
	}

	return nil
}
