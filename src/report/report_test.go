package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"market-signals/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var baseTime = time.Date(2024, 3, 4, 14, 30, 0, 0, time.UTC)

func series(symbol string, offsets []int, prices []float64) *models.MTickerSeries {
	s := &models.MTickerSeries{Symbol: symbol}
	for i, off := range offsets {
		s.Samples = append(s.Samples, models.MSample{Timestamp: baseTime.Add(time.Duration(off) * time.Minute), Price: prices[i]})
		s.Signal = append(s.Signal, 0)
		s.PnL = append(s.PnL, 0)
	}
	return s
}

func TestBuildRowsSortedByTimeThenTicker(t *testing.T) {
	msft := series("MSFT", []int{0, 5, 10}, []float64{400, 401, 402})
	aapl := series("AAPL", []int{5, 10, 15}, []float64{170, 171, 172})
	aapl.Signal[1] = 1
	aapl.PnL[2] = -5.53

	rows := BuildRows(map[string]*models.MTickerSeries{"MSFT": msft, "AAPL": aapl}, time.UTC)
	require.Len(t, rows, 6)

	var keys []string
	for _, r := range rows {
		keys = append(keys, r.Datetime[11:16]+" "+r.Ticker)
	}
	assert.Equal(t, []string{
		"14:30 MSFT",
		"14:35 AAPL",
		"14:35 MSFT",
		"14:40 AAPL",
		"14:40 MSFT",
		"14:45 AAPL",
	}, keys)
	assert.Equal(t, 1, rows[3].Signal)
	assert.Equal(t, -5.53, rows[5].PnL)
}

func TestBuildRowsUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	rows := BuildRows(map[string]*models.MTickerSeries{"IBM": series("IBM", []int{0}, []float64{190})}, loc)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-03-04 09:30:00", rows[0].Datetime)
}

func TestBuildRowsEmpty(t *testing.T) {
	assert.Empty(t, BuildRows(nil, nil))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "100.0", FormatFloat(100))
	assert.Equal(t, "-5.53", FormatFloat(-5.53))
	assert.Equal(t, "0.0", FormatFloat(0))
	assert.Equal(t, "171.25", FormatFloat(171.25))
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "report.csv")
	rows := []models.MReportRow{
		{Datetime: "2024-03-04 14:30:00", Ticker: "AAPL", Price: 170, Signal: 0, PnL: 0},
		{Datetime: "2024-03-04 14:35:00", Ticker: "AAPL", Price: 171.5, Signal: -1, PnL: -5.53},
	}

	require.NoError(t, WriteCSV(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"datetime,ticker,price,signal,pnl",
		"2024-03-04 14:30:00,AAPL,170.0,0,0.0",
		"2024-03-04 14:35:00,AAPL,171.5,-1,-5.53",
		"",
	}, "\n"), string(data))

	// rewritten from scratch
	require.NoError(t, WriteCSV(path, rows[:1]))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestWriteCSVFailureRemovesTempFile(t *testing.T) {
	// a non-empty directory where the report should go makes the rename fail
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "keep"), 0o755))

	err := WriteCSV(path, []models.MReportRow{{Datetime: "2024-03-04 14:30:00", Ticker: "AAPL", Price: 170}})
	require.Error(t, err)

	_, statErr := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportWritesWorkbook(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "report.csv")
	xlsxPath := filepath.Join(dir, "report.xlsx")

	snapshot := map[string]*models.MTickerSeries{"AAPL": series("AAPL", []int{0, 5}, []float64{170, 171})}
	rows, err := Export(snapshot, time.UTC, csvPath, xlsxPath)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	fx, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer fx.Close()

	header, err := fx.GetCellValue("Report", "A1")
	require.NoError(t, err)
	assert.Equal(t, "datetime", header)

	ticker, err := fx.GetCellValue("Report", "B3")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", ticker)
}
