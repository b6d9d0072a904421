package core

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBar(t *testing.T) {
	assert.Equal(t, SignalLong, ClassifyBar(120, 100, 0))
	assert.Equal(t, SignalShort, ClassifyBar(80, 100, 0))
	assert.Equal(t, SignalNeutral, ClassifyBar(100, 100, 0))
	assert.Equal(t, SignalNeutral, ClassifyBar(105, 100, 5), "touching the band is neutral")
	assert.Equal(t, SignalNeutral, ClassifyBar(500, math.NaN(), math.NaN()))
	assert.Equal(t, SignalNeutral, ClassifyBar(500, 100, math.NaN()))
}

func TestCalculateSignals_Breakout(t *testing.T) {
	prices := []float64{100, 100, 100, 100, 120, 100}
	means := []float64{100, 100, 100, 100, 100, 100}
	stds := []float64{0, 0, 0, 0, 0, 0}

	signals := CalculateSignals(prices, means, stds)

	assert.Equal(t, []int{0, 0, 0, 0, 1, 0}, signals)
}

func TestCalculateSignals_BoundariesStayNeutral(t *testing.T) {
	prices := []float64{150, 50, 150, 50}
	means := []float64{100, 100, 100, 100}
	stds := []float64{1, 1, 1, 1}

	signals := CalculateSignals(prices, means, stds)

	assert.Equal(t, []int{0, -1, 1, 0}, signals)
}

func TestCalculateSignals_ShortSeries(t *testing.T) {
	assert.Equal(t, []int{}, CalculateSignals([]float64{}, nil, nil))
	assert.Equal(t, []int{0}, CalculateSignals([]float64{5}, []float64{1}, []float64{0}))
	assert.Equal(t, []int{0, 0}, CalculateSignals([]float64{5, 9}, []float64{1, 1}, []float64{0, 0}))
}

func TestFoldPositions_HandTrace(t *testing.T) {
	prices := []float64{90, 100, 105, 95, 90}
	signals := []int{0, 1, 0, -1, 0}

	positions := FoldPositions(prices, signals)

	// bar 1 long buys bar 2 (105); bar 3 short sells bar 4 (90)
	assert.Equal(t, []float64{0, 0, 105, 105, 15}, positions)
}

func TestFoldPositions_IgnoresEdgeSignals(t *testing.T) {
	prices := []float64{10, 20, 30}
	positions := FoldPositions(prices, []int{1, 0, 1})
	assert.Equal(t, []float64{0, 0, 0}, positions)
}

func TestCalculatePnL_HandTrace(t *testing.T) {
	prices := []float64{90, 100, 105, 95, 90}
	positions := []float64{0, 0, 105, 105, 15}

	pnl, err := CalculatePnL(prices, positions)
	require.NoError(t, err)

	// pnl[3] = 105 * (95/105 - 1) = -10, pnl[4] = 105 * (90/95 - 1) = -5.526...
	assert.Equal(t, []float64{0, 0, 0, -10, -5.53}, pnl)
}

func TestCalculatePnL_RejectsNonPositivePrice(t *testing.T) {
	_, err := CalculatePnL([]float64{10, 0, 12}, []float64{0, 0, 0})
	require.Error(t, err)

	var priceErr *NonPositivePriceError
	require.True(t, errors.As(err, &priceErr))
	assert.Equal(t, 1, priceErr.Index)
}

func TestCalculatePnL_LastPriceMayBeAnything(t *testing.T) {
	// only previous prices are divisors
	pnl, err := CalculatePnL([]float64{10, 11}, []float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, pnl)
}
