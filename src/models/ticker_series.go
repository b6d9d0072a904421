package models

import (
	"math"
	"time"
)

// MTickerSeries is the fully annotated series of one ticker.
// All derived columns have the same length as Samples and are aligned by index.
// A published series is never mutated; updates replace it wholesale.
type MTickerSeries struct {
	Symbol          string    `json:"symbol"`
	IntervalMinutes int       `json:"interval_minutes"`
	Samples         []MSample `json:"samples"`
	RollingMean     []float64 `json:"-"` // NaN inside the warm-up window
	RollingStdDev   []float64 `json:"-"` // NaN inside the warm-up window
	Signal          []int     `json:"signal"`
	Position        []float64 `json:"position"`
	PnL             []float64 `json:"pnl"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Len returns the number of bars.
func (s *MTickerSeries) Len() int {
	return len(s.Samples)
}

// Prices copies the price column out of the samples.
func (s *MTickerSeries) Prices() []float64 {
	prices := make([]float64, len(s.Samples))
	for i, p := range s.Samples {
		prices[i] = p.Price
	}
	return prices
}

// Last returns the most recent sample.
func (s *MTickerSeries) Last() (MSample, bool) {
	if len(s.Samples) == 0 {
		return MSample{}, false
	}
	return s.Samples[len(s.Samples)-1], true
}

// Row materialises index i.
func (s *MTickerSeries) Row(i int) MSeriesRow {
	return MSeriesRow{
		Symbol:        s.Symbol,
		Timestamp:     s.Samples[i].Timestamp,
		Price:         s.Samples[i].Price,
		RollingMean:   nullable(s.RollingMean[i]),
		RollingStdDev: nullable(s.RollingStdDev[i]),
		Signal:        s.Signal[i],
		Position:      s.Position[i],
		PnL:           s.PnL[i],
	}
}

// MSeriesRow is one annotated bar, used for persistence, pushes and exports.
type MSeriesRow struct {
	Symbol        string    `json:"symbol"`
	Timestamp     time.Time `json:"timestamp"`
	Price         float64   `json:"price"`
	RollingMean   *float64  `json:"rolling_mean"`
	RollingStdDev *float64  `json:"rolling_std_dev"`
	Signal        int       `json:"signal"`
	Position      float64   `json:"position"`
	PnL           float64   `json:"pnl"`
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
