package analysis

import (
	"sort"
	"time"

	"market-signals/src/models"
)

// -----------------------------------------------------------------------------

// IndexAt returns the index of the latest sample with timestamp <= t,
// or -1 when t precedes the first sample.
func IndexAt(series *models.MTickerSeries, t time.Time) int {
	if series == nil {
		return -1
	}
	// right-side search: first index strictly after t
	idx := sort.Search(len(series.Samples), func(i int) bool {
		return series.Samples[i].Timestamp.After(t)
	})
	return idx - 1
}

// -----------------------------------------------------------------------------

// PriceAt returns the price as of t.
func PriceAt(series *models.MTickerSeries, t time.Time) (float64, bool) {
	idx := IndexAt(series, t)
	if idx < 0 {
		return 0, false
	}
	return series.Samples[idx].Price, true
}

// -----------------------------------------------------------------------------

// SignalAt returns the signal as of t.
func SignalAt(series *models.MTickerSeries, t time.Time) (int, bool) {
	idx := IndexAt(series, t)
	if idx < 0 {
		return 0, false
	}
	return series.Signal[idx], true
}

// -----------------------------------------------------------------------------

// RowAt returns the full annotated row as of t.
func RowAt(series *models.MTickerSeries, t time.Time) (models.MSeriesRow, bool) {
	idx := IndexAt(series, t)
	if idx < 0 {
		return models.MSeriesRow{}, false
	}
	return series.Row(idx), true
}

// -----------------------------------------------------------------------------

// PointInTime builds the /data answer for one series. Fields stay nil without data.
func PointInTime(series *models.MTickerSeries, t time.Time) models.MPointInTime {
	idx := IndexAt(series, t)
	if idx < 0 {
		return models.MPointInTime{}
	}
	price := series.Samples[idx].Price
	signal := series.Signal[idx]
	return models.MPointInTime{Price: &price, Signal: &signal}
}
