package storage

import (
	"path/filepath"
	"testing"
	"time"

	"market-signals/src/analysis"
	"market-signals/src/logger"
	"market-signals/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *AsyncSQLiteDB {
	cfg := &models.MConfig{Storage: models.MStorageConfig{DBType: "sqlite", DBPath: filepath.Join(t.TempDir(), "db", "signals.db")}}
	db, err := NewDatabase(cfg, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db.(*AsyncSQLiteDB)
}

func annotated(t *testing.T, symbol string, n int) *models.MTickerSeries {
	facade, err := analysis.NewAnalysisFacade(60, logger.NewNopLogger())
	require.NoError(t, err)

	start := time.Date(2024, 3, 4, 14, 30, 0, 0, time.UTC)
	samples := make([]models.MSample, n)
	for i := range samples {
		samples[i] = models.MSample{Timestamp: start.Add(time.Duration(i) * time.Hour), Price: 100 + float64(i%7)}
	}
	series, err := facade.Annotate(symbol, samples)
	require.NoError(t, err)
	return series
}

func TestSQLiteSaveAndLoad(t *testing.T) {
	db := newTestSQLite(t)
	series := annotated(t, "AAPL", 30)

	require.NoError(t, db.SaveSeries(series))

	rows, err := db.LoadRows("AAPL")
	require.NoError(t, err)
	require.Len(t, rows, 30)

	assert.Nil(t, rows[0].RollingMean, "warm-up bars are stored as NULL")
	require.NotNil(t, rows[23].RollingMean)
	assert.InDelta(t, series.RollingMean[23], *rows[23].RollingMean, 1e-9)
	assert.True(t, rows[29].Timestamp.Equal(series.Samples[29].Timestamp))
	assert.Equal(t, series.Signal, signalsOf(rows))
}

func TestSQLiteSaveReplaces(t *testing.T) {
	db := newTestSQLite(t)

	require.NoError(t, db.SaveSeries(annotated(t, "AAPL", 30)))
	require.NoError(t, db.SaveSeries(annotated(t, "AAPL", 31)))
	require.NoError(t, db.SaveSeries(annotated(t, "MSFT", 5)))

	rows, err := db.LoadRows("AAPL")
	require.NoError(t, err)
	assert.Len(t, rows, 31)

	var bars int
	require.NoError(t, db.DB.QueryRow("SELECT bars FROM tickers WHERE symbol = ?", "AAPL").Scan(&bars))
	assert.Equal(t, 31, bars)
}

func TestSQLiteDelete(t *testing.T) {
	db := newTestSQLite(t)
	require.NoError(t, db.SaveSeries(annotated(t, "AAPL", 10)))

	require.NoError(t, db.DeleteSeries("AAPL"))

	rows, err := db.LoadRows("AAPL")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestNewDatabaseNone(t *testing.T) {
	db, err := NewDatabase(&models.MConfig{Storage: models.MStorageConfig{DBType: "none"}}, logger.NewNopLogger())
	require.NoError(t, err)
	assert.Nil(t, db)

	_, err = NewDatabase(&models.MConfig{Storage: models.MStorageConfig{DBType: "mongo"}}, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestSchemaName(t *testing.T) {
	assert.Equal(t, "market_signals", SchemaName("Market-Signals"))
}

func signalsOf(rows []models.MSeriesRow) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Signal
	}
	return out
}
