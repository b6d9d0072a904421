package analysis

import (
	"testing"
	"time"

	"market-signals/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupSeries(t *testing.T) *models.MTickerSeries {
	t.Helper()
	series, err := newFacade(t, 60).Annotate("AAPL", generateSamples(10, 20, 30))
	require.NoError(t, err)
	series.Signal = []int{0, 1, 0} // pin a recognisable value
	return series
}

func TestPriceAtExactMatch(t *testing.T) {
	series := lookupSeries(t)

	price, ok := PriceAt(series, baseTime.Add(time.Hour))
	require.True(t, ok)
	assert.Equal(t, 20.0, price)

	signal, ok := SignalAt(series, baseTime.Add(time.Hour))
	require.True(t, ok)
	assert.Equal(t, 1, signal)
}

func TestPriceAtBetweenSamples(t *testing.T) {
	series := lookupSeries(t)

	price, ok := PriceAt(series, baseTime.Add(90*time.Minute))
	require.True(t, ok)
	assert.Equal(t, 20.0, price)
}

func TestPriceAtBeforeFirst(t *testing.T) {
	series := lookupSeries(t)

	_, ok := PriceAt(series, baseTime.Add(-time.Minute))
	assert.False(t, ok)
	_, ok = SignalAt(series, baseTime.Add(-time.Minute))
	assert.False(t, ok)

	pit := PointInTime(series, baseTime.Add(-time.Minute))
	assert.Nil(t, pit.Price)
	assert.Nil(t, pit.Signal)
}

func TestPriceAtAfterLast(t *testing.T) {
	series := lookupSeries(t)

	pit := PointInTime(series, baseTime.Add(48*time.Hour))
	require.NotNil(t, pit.Price)
	require.NotNil(t, pit.Signal)
	assert.Equal(t, 30.0, *pit.Price)
	assert.Equal(t, 0, *pit.Signal)
}

func TestIndexAtNilAndEmpty(t *testing.T) {
	assert.Equal(t, -1, IndexAt(nil, baseTime))
	assert.Equal(t, -1, IndexAt(&models.MTickerSeries{}, baseTime))
}

func TestRowAt(t *testing.T) {
	series := lookupSeries(t)

	row, ok := RowAt(series, baseTime.Add(90*time.Minute))
	require.True(t, ok)
	assert.Equal(t, "AAPL", row.Symbol)
	assert.Equal(t, 20.0, row.Price)
	assert.Equal(t, 1, row.Signal)
	assert.Nil(t, row.RollingMean)

	_, ok = RowAt(series, baseTime.Add(-time.Minute))
	assert.False(t, ok)
}
