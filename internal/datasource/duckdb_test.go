package datasource

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/mantle-quant/mantle/internal/logger"
	"github.com/mantle-quant/mantle/pkg/errors"
)

const panelCSV = `date,asset,symbol,settlement_price,open_interest,cleared_volume,opening_price,trading_session_low_price,trading_session_high_price,lowest_offer,highest_bid
2024-01-02,ES,ESH4,100.5,900,1000,100.0,99.0,101.0,100.6,100.4
2024-01-02,ES,ESM4,101.5,500,400,101.0,100.0,102.0,101.6,101.4
2024-01-03,ES,ESH4,100.7,880,1100,100.4,99.5,101.2,100.8,100.6
2024-01-03,ES,ESM4,101.7,520,450,101.2,100.5,102.2,101.8,101.6
2024-01-02,GC,GCG4,2050.0,300,200,2049.0,2040.0,2060.0,2050.5,2049.5
`

type DuckDBPanelSourceTestSuite struct {
	suite.Suite
	source *DuckDBPanelSource
}

func TestDuckDBPanelSourceSuite(t *testing.T) {
	suite.Run(t, new(DuckDBPanelSourceTestSuite))
}

func (suite *DuckDBPanelSourceTestSuite) SetupTest() {
	source, err := NewPanelSource(":memory:", logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.source = source
}

func (suite *DuckDBPanelSourceTestSuite) TearDownTest() {
	if suite.source != nil {
		suite.source.Close()
		suite.source = nil
	}
}

func (suite *DuckDBPanelSourceTestSuite) writePanel(content string) string {
	path := filepath.Join(suite.T().TempDir(), "panel.csv")
	err := os.WriteFile(path, []byte(content), 0644)
	suite.Require().NoError(err)

	return path
}

func (suite *DuckDBPanelSourceTestSuite) TestInitializeAndReadAll() {
	err := suite.source.Initialize(suite.writePanel(panelCSV))
	suite.Require().NoError(err)

	bars, err := suite.source.ReadPanel(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Len(bars, 5)

	// Sorted by (asset, date, symbol).
	suite.Equal("ES", bars[0].Asset)
	suite.Equal("ESH4", bars[0].Symbol)
	suite.Equal(100.5, bars[0].SettlementPrice)
	suite.Equal(900.0, bars[0].OpenInterest)
	suite.Equal("GC", bars[4].Asset)
	suite.Equal(2050.0, bars[4].SettlementPrice)
}

func (suite *DuckDBPanelSourceTestSuite) TestReadPanelDateBounds() {
	err := suite.source.Initialize(suite.writePanel(panelCSV))
	suite.Require().NoError(err)

	start := optional.Some(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	bars, err := suite.source.ReadPanel(start, optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Len(bars, 2)

	end := optional.Some(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	bars, err = suite.source.ReadPanel(optional.None[time.Time](), end)
	suite.Require().NoError(err)
	suite.Len(bars, 3)
}

func (suite *DuckDBPanelSourceTestSuite) TestMissingColumnFailsInitialize() {
	broken := `date,asset,symbol,settlement_price
2024-01-02,ES,ESH4,100.5
`
	err := suite.source.Initialize(suite.writePanel(broken))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingColumn))
	suite.Contains(err.Error(), "open_interest")
}

func (suite *DuckDBPanelSourceTestSuite) TestNullNumericBecomesNaN() {
	withNull := `date,asset,symbol,settlement_price,open_interest,cleared_volume,opening_price,trading_session_low_price,trading_session_high_price,lowest_offer,highest_bid
2024-01-02,ES,ESH4,100.5,,1000,100.0,99.0,101.0,100.6,100.4
`
	err := suite.source.Initialize(suite.writePanel(withNull))
	suite.Require().NoError(err)

	bars, err := suite.source.ReadPanel(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Require().Len(bars, 1)
	suite.True(math.IsNaN(bars[0].OpenInterest))
	suite.Equal(100.5, bars[0].SettlementPrice)
}

func (suite *DuckDBPanelSourceTestSuite) TestGetAssets() {
	err := suite.source.Initialize(suite.writePanel(panelCSV))
	suite.Require().NoError(err)

	assets, err := suite.source.GetAssets()
	suite.Require().NoError(err)
	suite.Equal([]string{"ES", "GC"}, assets)
}

func (suite *DuckDBPanelSourceTestSuite) TestCount() {
	err := suite.source.Initialize(suite.writePanel(panelCSV))
	suite.Require().NoError(err)

	count, err := suite.source.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal(5, count)

	start := optional.Some(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	count, err = suite.source.Count(start, optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal(2, count)
}

func (suite *DuckDBPanelSourceTestSuite) TestInitializeMissingFile() {
	err := suite.source.Initialize(filepath.Join(suite.T().TempDir(), "absent.parquet"))
	suite.Error(err)
}
