package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RefreshCycles = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "signals_refresh_cycles_total", Help: "Completed refresh cycles"},
	)
	RefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "signals_refresh_duration_seconds", Help: "Wall time of one refresh cycle", Buckets: prometheus.DefBuckets},
	)
	QuoteFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_quote_failures_total", Help: "Tickers skipped during refresh"},
		[]string{"symbol", "reason"},
	)
	TrackedTickers = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "signals_tracked_tickers", Help: "Tickers currently held in the store"},
	)
	LastPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "signals_last_price", Help: "Most recent price per ticker"},
		[]string{"symbol"},
	)
	LastSignal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "signals_last_signal", Help: "Most recent defined signal per ticker"},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(RefreshCycles, RefreshDuration, QuoteFailures, TrackedTickers, LastPrice, LastSignal)
}

// Forget drops the per-ticker series of a deleted symbol.
func Forget(symbol string) {
	LastPrice.DeleteLabelValues(symbol)
	LastSignal.DeleteLabelValues(symbol)
	QuoteFailures.DeletePartialMatch(prometheus.Labels{"symbol": symbol})
}
