package model

import (
	"fmt"
	"math"
	"sort"
)

// softClip bounds x to (-scale, scale) smoothly via scale*tanh(x/scale).
// For |x| small relative to scale the output approaches x.
func softClip(x, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return scale * math.Tanh(x/scale)
}

// normalCDF evaluates the standard Normal cumulative distribution at z.
func normalCDF(z float64) float64 {
	return 0.5 * (1.0 + math.Erf(z/math.Sqrt2))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// percentile returns the p-th percentile (0-100) of values using linear
// interpolation between adjacent ranks. The input is not modified.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStddev returns the standard deviation with one delta degree of
// freedom. Zero for fewer than two values.
func sampleStddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mu := mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// solveLinearSystem solves the 3x3 system a*x = b in place using Gaussian
// elimination with partial pivoting. Fails on a singular or near-singular
// matrix so the caller can fall back.
func solveLinearSystem(a [3][3]float64, b [3]float64) ([3]float64, error) {
	const eps = 1e-12
	n := 3
	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < eps {
			return [3]float64{}, fmt.Errorf("singular design matrix at column %d", col)
		}
		if pivot != col {
			a[col], a[pivot] = a[pivot], a[col]
			b[col], b[pivot] = b[pivot], b[col]
		}
		for row := col + 1; row < n; row++ {
			factor := a[row][col] / a[col][col]
			for k := col; k < n; k++ {
				a[row][k] -= factor * a[col][k]
			}
			b[row] -= factor * b[col]
		}
	}

	var x [3]float64
	for row := n - 1; row >= 0; row-- {
		sum := b[row]
		for k := row + 1; k < n; k++ {
			sum -= a[row][k] * x[k]
		}
		x[row] = sum / a[row][row]
	}
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return [3]float64{}, fmt.Errorf("non-finite regression solution")
		}
	}
	return x, nil
}
