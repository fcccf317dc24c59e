package analytics

import "math"

// Round rounds v to the given number of decimal places
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Mean returns the arithmetic mean, 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// MovingAverage returns the trailing average over window points for each index,
// rounded to one decimal. Leading points average over what is available.
func MovingAverage(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		out[i] = Round(Mean(values[start:i+1]), 1)
	}
	return out
}

// LinearRegressionForecast fits a least-squares line through values (oldest first,
// x = 0..n-1) and evaluates it periods steps past the last point, rounded to two decimals
func LinearRegressionForecast(values []float64, periods int) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return Round(sumY/n, 2)
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	x := n - 1 + float64(periods)
	return Round(slope*x+intercept, 2)
}

// CoefficientOfVariation is the population standard deviation divided by the mean.
// ok is false when the mean is zero.
func CoefficientOfVariation(values []float64) (cv float64, ok bool) {
	mean := Mean(values)
	if mean == 0 {
		return 0, false
	}
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance) / math.Abs(mean), true
}

// ForecastConfidence grades how stable a series is
func ForecastConfidence(values []float64) string {
	cv, ok := CoefficientOfVariation(values)
	switch {
	case !ok:
		return "low"
	case cv < 0.1:
		return "high"
	case cv < 0.3:
		return "medium"
	default:
		return "low"
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
