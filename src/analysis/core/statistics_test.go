package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowSize(t *testing.T) {
	cases := map[int]int{5: 288, 15: 96, 30: 48, 60: 24}
	for interval, expected := range cases {
		w, err := WindowSize(interval)
		require.NoError(t, err)
		assert.Equal(t, expected, w, "interval %d", interval)
	}
}

func TestWindowSize_Unsupported(t *testing.T) {
	for _, interval := range []int{0, 1, 10, 45, 120, -5} {
		_, err := WindowSize(interval)
		assert.Error(t, err, "interval %d", interval)
	}
}

func TestCalculateMeanStd_SampleDeviation(t *testing.T) {
	mean, std := CalculateMeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	assert.InDelta(t, 5.0, mean, 1e-12)
	// population std is 2, sample std is sqrt(32/7)
	assert.InDelta(t, math.Sqrt(32.0/7.0), std, 1e-12)
}

func TestCalculateMeanStd_Degenerate(t *testing.T) {
	mean, std := CalculateMeanStd(nil)
	assert.True(t, math.IsNaN(mean))
	assert.True(t, math.IsNaN(std))

	mean, std = CalculateMeanStd([]float64{42})
	assert.Equal(t, 42.0, mean)
	assert.True(t, math.IsNaN(std))
}

func TestRollingMeanStd_WarmUpIsUndefined(t *testing.T) {
	prices := []float64{10, 11, 12, 13, 14, 15}
	means, stds := RollingMeanStd(prices, 4)

	require.Len(t, means, len(prices))
	require.Len(t, stds, len(prices))
	for i := 0; i < 3; i++ {
		assert.True(t, math.IsNaN(means[i]), "mean[%d]", i)
		assert.True(t, math.IsNaN(stds[i]), "std[%d]", i)
	}
	for i := 3; i < len(prices); i++ {
		assert.False(t, math.IsNaN(means[i]), "mean[%d]", i)
		assert.False(t, math.IsNaN(stds[i]), "std[%d]", i)
	}

	assert.Equal(t, 11.5, means[3])
	assert.Equal(t, 12.5, means[4])
	assert.InDelta(t, math.Sqrt(5.0/3.0), stds[3], 1e-12)
}

func TestRollingMeanStd_SeriesShorterThanWindow(t *testing.T) {
	means, stds := RollingMeanStd([]float64{1, 2, 3}, 24)
	for i := range means {
		assert.True(t, math.IsNaN(means[i]))
		assert.True(t, math.IsNaN(stds[i]))
	}
}

func TestRollingMeanStd_MeanRoundedStdNot(t *testing.T) {
	means, stds := RollingMeanStd([]float64{1, 1, 2}, 3)

	assert.Equal(t, 1.33, means[2])
	assert.InDelta(t, 0.5773502691896257, stds[2], 1e-12)

	// 2403/24 = 100.125 exactly: ties go to the even cent
	prices := make([]float64, 24)
	for i := range prices {
		prices[i] = 100
	}
	prices[23] = 103
	means, _ = RollingMeanStd(prices, 24)
	assert.Equal(t, 100.12, means[23])
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.236))
	assert.Equal(t, -5.53, Round2(-5.526315789))
	assert.Equal(t, 0.0, Round2(0))

	assert.Equal(t, 0.12, Round2(0.125))
	assert.Equal(t, -0.12, Round2(-0.125))
	assert.Equal(t, 0.38, Round2(0.375))
	assert.Equal(t, 100.12, Round2(100.125))
	assert.Equal(t, 2.67, Round2(2.675))
	assert.Equal(t, 1.0, Round2(1.005))
	assert.True(t, math.IsNaN(Round2(math.NaN())))
}
