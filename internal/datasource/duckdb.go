package datasource

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/mantle-quant/mantle/internal/logger"
	"github.com/mantle-quant/mantle/internal/types"
	"github.com/mantle-quant/mantle/pkg/errors"
)

// panelView is the name of the DuckDB view the panel file is exposed under.
const panelView = "contract_panel"

// panelColumns lists the columns a panel file must carry, in select order.
var panelColumns = []string{
	"date",
	"asset",
	"symbol",
	"settlement_price",
	"open_interest",
	"cleared_volume",
	"opening_price",
	"trading_session_low_price",
	"trading_session_high_price",
	"lowest_offer",
	"highest_bid",
}

// DuckDBPanelSource reads contract panels through an embedded DuckDB
// instance, which handles both Parquet and CSV transparently.
type DuckDBPanelSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewPanelSource opens a DuckDB handle at the given database path
// (":memory:" for ephemeral use). This is distinct from Initialize, which
// binds a panel file to the handle.
func NewPanelSource(path string, log *logger.Logger) (*DuckDBPanelSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open DuckDB", err)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &DuckDBPanelSource{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements PanelSource. It creates a view over the panel file
// and verifies the required columns are present.
func (d *DuckDBPanelSource) Initialize(path string) error {
	d.logger.Debug("Initializing DuckDB panel source", zap.String("path", path))

	// First drop the view if it exists
	_, err := d.db.Exec(fmt.Sprintf(`DROP VIEW IF EXISTS %s;`, panelView))
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to drop existing view", err)
	}

	// Using raw SQL as squirrel doesn't support CREATE VIEW. read_csv_auto
	// infers column types including the date column.
	reader := "read_parquet"
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		reader = "read_csv_auto"
	}

	query := fmt.Sprintf(`CREATE VIEW %s AS SELECT * FROM %s('%s');`, panelView, reader, path)

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to create view over %s", path)
	}

	return d.checkSchema()
}

// checkSchema fails fast when the panel file lacks a required column.
func (d *DuckDBPanelSource) checkSchema() error {
	rows, err := d.db.Query(
		`SELECT column_name FROM information_schema.columns WHERE table_name = $1`, panelView)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to inspect panel schema", err)
	}
	defer rows.Close()

	present := make(map[string]bool)

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan column name", err)
		}

		present[strings.ToLower(name)] = true
	}

	if err := rows.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "error iterating schema rows", err)
	}

	for _, col := range panelColumns {
		if !present[col] {
			return errors.Newf(errors.ErrCodeMissingColumn, "panel file is missing required column %s", col)
		}
	}

	return nil
}

// ReadPanel implements PanelSource.
func (d *DuckDBPanelSource) ReadPanel(start optional.Option[time.Time], end optional.Option[time.Time]) ([]types.ContractBar, error) {
	builder := d.sq.
		Select(panelColumns...).
		From(panelView).
		OrderBy("asset ASC", "date ASC", "symbol ASC")

	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{"date": start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{"date": end.Unwrap()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build panel query", err)
	}

	stmt, err := d.db.Prepare(query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to prepare panel query", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query panel", err)
	}
	defer rows.Close()

	result := make([]types.ContractBar, 0, 1000)

	for rows.Next() {
		var (
			date          time.Time
			asset, symbol string
			numeric       [8]sql.NullFloat64
		)

		err := rows.Scan(&date, &asset, &symbol,
			&numeric[0], &numeric[1], &numeric[2], &numeric[3],
			&numeric[4], &numeric[5], &numeric[6], &numeric[7])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan panel row", err)
		}

		result = append(result, types.ContractBar{
			Date:            date,
			Asset:           asset,
			Symbol:          symbol,
			SettlementPrice: nullToNaN(numeric[0]),
			OpenInterest:    nullToNaN(numeric[1]),
			ClearedVolume:   nullToNaN(numeric[2]),
			OpeningPrice:    nullToNaN(numeric[3]),
			SessionLow:      nullToNaN(numeric[4]),
			SessionHigh:     nullToNaN(numeric[5]),
			LowestOffer:     nullToNaN(numeric[6]),
			HighestBid:      nullToNaN(numeric[7]),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating panel rows", err)
	}

	return result, nil
}

// GetAssets implements PanelSource.
func (d *DuckDBPanelSource) GetAssets() ([]string, error) {
	rows, err := d.db.Query(fmt.Sprintf("SELECT DISTINCT asset FROM %s ORDER BY asset", panelView))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to get assets", err)
	}
	defer rows.Close()

	var assets []string

	for rows.Next() {
		var asset string
		if err := rows.Scan(&asset); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan asset", err)
		}

		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating assets", err)
	}

	return assets, nil
}

// Count implements PanelSource.
func (d *DuckDBPanelSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	builder := d.sq.Select("COUNT(*)").From(panelView)

	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{"date": start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{"date": end.Unwrap()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count panel rows", err)
	}

	return count, nil
}

// Close implements PanelSource.
func (d *DuckDBPanelSource) Close() error {
	if d.db != nil {
		return d.db.Close()
	}

	return nil
}

func nullToNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}

	return v.Float64
}
