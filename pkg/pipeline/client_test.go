package pipeline

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/mantle-quant/mantle/pkg/errors"
)

// rollCSV carries one asset (X) rolling from XA to XB on day 3, plus a second
// asset (Y) that never rolls. Both assets list two contracts every day.
const rollCSV = `date,asset,symbol,settlement_price,open_interest,cleared_volume,opening_price,trading_session_low_price,trading_session_high_price,lowest_offer,highest_bid
2024-01-01,X,XA,101,100,10,100,99,102,101.5,100.5
2024-01-01,X,XB,111,50,5,110,109,112,111.5,110.5
2024-01-02,X,XA,102,100,10,101,100,103,102.5,101.5
2024-01-02,X,XB,112,50,5,111,110,113,112.5,111.5
2024-01-03,X,XA,103,90,10,102,101,104,103.5,102.5
2024-01-03,X,XB,113,95,5,112,111,114,113.5,112.5
2024-01-04,X,XA,104,40,10,103,102,105,104.5,103.5
2024-01-04,X,XB,114,100,5,113,112,115,114.5,113.5
2024-01-05,X,XA,105,10,10,104,103,106,105.5,104.5
2024-01-05,X,XB,115,100,5,114,113,116,115.5,114.5
2024-01-01,Y,YA,50,200,20,49,48,51,50.5,49.5
2024-01-01,Y,YB,55,100,10,54,53,56,55.5,54.5
2024-01-02,Y,YA,51,200,20,50,49,52,51.5,50.5
2024-01-02,Y,YB,56,100,10,55,54,57,56.5,55.5
`

const marketsYAML = `X:
  name: Test Market X
  asset_class: Equity
  sector: Index
  sub_sector: Large Cap
`

type ClientTestSuite struct {
	suite.Suite
	dir        string
	dataPath   string
	outputPath string
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.dataPath = filepath.Join(suite.dir, "panel.csv")
	suite.outputPath = filepath.Join(suite.dir, "continuous.parquet")

	err := os.WriteFile(suite.dataPath, []byte(rollCSV), 0644)
	suite.Require().NoError(err)
}

func (suite *ClientTestSuite) writeMarkets() string {
	path := filepath.Join(suite.dir, "markets.yaml")
	err := os.WriteFile(path, []byte(marketsYAML), 0644)
	suite.Require().NoError(err)

	return path
}

func (suite *ClientTestSuite) defaultConfig() Config {
	config := DefaultConfig()
	config.DataPath = suite.dataPath
	config.OutputPath = suite.outputPath
	config.BlendWindow = 3

	return config
}

func (suite *ClientTestSuite) queryParquet(path, query string) *sql.Row {
	db, err := sql.Open("duckdb", ":memory:")
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { db.Close() })

	return db.QueryRow(query)
}

func (suite *ClientTestSuite) TestRunEndToEnd() {
	client, err := NewClient(suite.defaultConfig(), nil, nil)
	suite.Require().NoError(err)

	path, err := client.Run(context.Background())
	suite.Require().NoError(err)
	suite.Equal(suite.outputPath, path)

	var rows int

	err = suite.queryParquet(path,
		"SELECT COUNT(*) FROM read_parquet('"+path+"')").Scan(&rows)
	suite.Require().NoError(err)
	// 5 days of X plus 2 days of Y.
	suite.Equal(7, rows)

	// Day 1 of X sits inside the roll window, so its price is the even blend
	// of XA (101) and XB (111).
	var price float64

	err = suite.queryParquet(path,
		"SELECT price FROM read_parquet('"+path+"') WHERE asset = 'X' AND date = DATE '2024-01-01'").Scan(&price)
	suite.Require().NoError(err)
	suite.Equal(106.0, price)

	// Day 5 is outside the window: pure front contract XB.
	var symbol string

	err = suite.queryParquet(path,
		"SELECT symbol FROM read_parquet('"+path+"') WHERE asset = 'X' AND date = DATE '2024-01-05'").Scan(&symbol)
	suite.Require().NoError(err)
	suite.Equal("XB", symbol)
}

func (suite *ClientTestSuite) TestRunReportsProgress() {
	var (
		assets []string
		totals []int
	)

	onProgress := func(asset string, current, total int) {
		assets = append(assets, asset)
		totals = append(totals, total)
	}

	client, err := NewClient(suite.defaultConfig(), nil, onProgress)
	suite.Require().NoError(err)

	_, err = client.Run(context.Background())
	suite.Require().NoError(err)

	suite.Equal([]string{"X", "Y"}, assets)
	suite.Equal([]int{2, 2}, totals)
}

func (suite *ClientTestSuite) TestRunWithMarketsFilter() {
	config := suite.defaultConfig()
	config.MarketsPath = suite.writeMarkets()

	client, err := NewClient(config, nil, nil)
	suite.Require().NoError(err)

	path, err := client.Run(context.Background())
	suite.Require().NoError(err)

	var assets int

	err = suite.queryParquet(path,
		"SELECT COUNT(DISTINCT asset) FROM read_parquet('"+path+"')").Scan(&assets)
	suite.Require().NoError(err)
	suite.Equal(1, assets)
}

func (suite *ClientTestSuite) TestRunWithDateBounds() {
	config := suite.defaultConfig()
	config.StartDate = optional.Some(time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC))

	client, err := NewClient(config, nil, nil)
	suite.Require().NoError(err)

	path, err := client.Run(context.Background())
	suite.Require().NoError(err)

	var rows int

	err = suite.queryParquet(path,
		"SELECT COUNT(*) FROM read_parquet('"+path+"')").Scan(&rows)
	suite.Require().NoError(err)
	// Only X has data on days 4 and 5; Y's group count drops below two rows
	// per date nowhere, but its dates are out of range entirely.
	suite.Equal(2, rows)
}

func (suite *ClientTestSuite) TestInvalidDateRange() {
	config := suite.defaultConfig()
	config.StartDate = optional.Some(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	config.EndDate = optional.Some(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := NewClient(config, nil, nil)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidDateRange))
}

func (suite *ClientTestSuite) TestMissingRequiredFields() {
	config := DefaultConfig()

	_, err := NewClient(config, nil, nil)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ClientTestSuite) TestEvenBlendWindowRejected() {
	config := suite.defaultConfig()
	config.BlendWindow = 4

	_, err := NewClient(config, nil, nil)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidBlendWindow))
}

func (suite *ClientTestSuite) TestNoDataFound() {
	config := suite.defaultConfig()
	config.StartDate = optional.Some(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	client, err := NewClient(config, nil, nil)
	suite.Require().NoError(err)

	_, err = client.Run(context.Background())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))
}

func (suite *ClientTestSuite) TestCancelledContext() {
	client, err := NewClient(suite.defaultConfig(), nil, nil)
	suite.Require().NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.Run(ctx)
	suite.Require().Error(err)
	suite.ErrorIs(err, context.Canceled)
}
