package eval

import "math"

// meanStd returns the mean and the sample standard deviation of vals.
func meanStd(vals []float64) (mean, std float64) {
	n := float64(len(vals))
	for _, v := range vals {
		mean += v
	}
	mean /= n
	if len(vals) < 2 {
		return mean, 0
	}
	for _, v := range vals {
		d := v - mean
		std += d * d
	}
	return mean, math.Sqrt(std / (n - 1))
}
