package core

import (
	"fmt"
)

// Signal values.
const (
	SignalShort   = -1
	SignalNeutral = 0
	SignalLong    = 1
)

// NonPositivePriceError reports a bar whose price cannot be used as a divisor.
type NonPositivePriceError struct {
	Index int
	Price float64
}

func (e *NonPositivePriceError) Error() string {
	return fmt.Sprintf("non-positive price %v at index %d", e.Price, e.Index)
}

// -----------------------------------------------------------------------------

// ClassifyBar compares a price against mean +/- std. NaN bands yield neutral.
func ClassifyBar(price, mean, std float64) int {
	switch {
	case price > mean+std:
		return SignalLong
	case price < mean-std:
		return SignalShort
	default:
		return SignalNeutral
	}
}

// -----------------------------------------------------------------------------

// CalculateSignals classifies bars 1..n-2. The first and last bar stay neutral.
func CalculateSignals(prices, means, stds []float64) []int {
	signals := make([]int, len(prices))
	for i := 1; i < len(prices)-1; i++ {
		signals[i] = ClassifyBar(prices[i], means[i], stds[i])
	}
	return signals
}

// -----------------------------------------------------------------------------

// FoldPositions carries the dollar position forward bar by bar. A long signal at
// bar i buys the next bar's price, a short signal sells it.
func FoldPositions(prices []float64, signals []int) []float64 {
	positions := make([]float64, len(prices))
	position := 0.0

	for i := 1; i < len(prices)-1; i++ {
		switch signals[i] {
		case SignalLong:
			position += prices[i+1]
		case SignalShort:
			position -= prices[i+1]
		}
		positions[i+1] = position
	}

	return positions
}

// -----------------------------------------------------------------------------

// CalculateReturn is the bar-over-bar simple return.
func CalculateReturn(current, previous float64) float64 {
	return current/previous - 1
}

// -----------------------------------------------------------------------------

// CalculatePnL attributes each bar's return to the previous bar's position,
// rounded to cents. Index 0 is always zero.
func CalculatePnL(prices, positions []float64) ([]float64, error) {
	pnl := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		if prices[i-1] <= 0 {
			return nil, &NonPositivePriceError{Index: i - 1, Price: prices[i-1]}
		}
		pnl[i] = Round2(positions[i-1] * CalculateReturn(prices[i], prices[i-1]))
	}
	return pnl, nil
}
