package core

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// MinutesPerDay is the lookback the rolling window approximates.
const MinutesPerDay = 24 * 60

// SupportedIntervals lists the bar sizes (minutes) the providers deliver.
var SupportedIntervals = []int{5, 15, 30, 60}

// -----------------------------------------------------------------------------

// WindowSize returns the number of trailing bars covering one day.
func WindowSize(intervalMinutes int) (int, error) {
	for _, iv := range SupportedIntervals {
		if iv == intervalMinutes {
			return MinutesPerDay / intervalMinutes, nil
		}
	}
	return 0, fmt.Errorf("unsupported interval %d minutes (expected one of %v)", intervalMinutes, SupportedIntervals)
}

// -----------------------------------------------------------------------------

// CalculateMeanStd computes mean and sample standard deviation (n-1 denominator).
// Std is NaN for fewer than two values.
func CalculateMeanStd(data []float64) (float64, float64) {
	if len(data) == 0 {
		return math.NaN(), math.NaN()
	}

	sum := 0.0
	for _, v := range data {
		sum += v
	}
	mean := sum / float64(len(data))

	if len(data) == 1 {
		return mean, math.NaN()
	}

	varianceSum := 0.0
	for _, v := range data {
		varianceSum += (v - mean) * (v - mean)
	}
	std := math.Sqrt(varianceSum / float64(len(data)-1))
	return mean, std
}

// -----------------------------------------------------------------------------

// RollingMeanStd computes trailing-window mean (rounded to cents) and sample std
// for every index. Indices before window-1 are NaN.
func RollingMeanStd(prices []float64, window int) ([]float64, []float64) {
	means := make([]float64, len(prices))
	stds := make([]float64, len(prices))

	for i := range prices {
		if window < 1 || i < window-1 {
			means[i] = math.NaN()
			stds[i] = math.NaN()
			continue
		}
		mean, std := CalculateMeanStd(prices[i-window+1 : i+1])
		means[i] = Round2(mean)
		stds[i] = std
	}

	return means, stds
}

// -----------------------------------------------------------------------------

// Round2 rounds to two decimal places, half to even on the exact binary value
// (2.675 is stored below the tie and becomes 2.67; 0.125 becomes 0.12).
// NaN and infinities pass through.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return exactDecimal(v).RoundBank(2).InexactFloat64()
}

// exactDecimal converts v digit for digit. NewFromFloat would first pick the
// shortest decimal that parses back to v, which turns 2.67499999... into 2.675.
func exactDecimal(v float64) decimal.Decimal {
	r := new(big.Rat).SetFloat64(v)
	// the denominator of a finite float64 is 2^k, and n/2^k == n*5^k/10^k
	k := r.Denom().BitLen() - 1
	scaled := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(k)), nil)
	scaled.Mul(scaled, r.Num())
	return decimal.NewFromBigInt(scaled, -int32(k))
}
