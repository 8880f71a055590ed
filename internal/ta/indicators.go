package ta

import "math"

func MeanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

// SMASeries returns the simple moving average; positions before the first full window are NaN.
func SMASeries(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

func EMASeries(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	if period <= 1 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	alpha := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSISeries averages gains and losses with a plain rolling mean over period deltas.
// The missing delta before the first close counts as a flat move, so the first reading
// lands at index period-1. A window with no losses reads 100; a window with neither
// gains nor losses is NaN.
func RSISeries(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period {
		return nil
	}
	series := nanSeries(len(closes))

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	var gainSum, lossSum float64
	for i := 0; i < len(closes); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i >= period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i >= period-1 {
			series[i] = rsiFromAvg(gainSum/float64(period), lossSum/float64(period))
		}
	}
	return series
}

func rsiFromAvg(avgGain, avgLoss float64) float64 {
	// rolling sums can drift a hair below zero
	if avgLoss <= 1e-12 {
		if avgGain <= 1e-12 {
			return math.NaN()
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

func MACDSeries(values []float64, fast, slow, signal int) ([]float64, []float64) {
	if len(values) == 0 {
		return nil, nil
	}
	fastEMA := EMASeries(values, fast)
	slowEMA := EMASeries(values, slow)
	macdLine := make([]float64, len(values))
	for i := range values {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine := EMASeries(macdLine, signal)
	return macdLine, signalLine
}

func BollingerSeries(values []float64, period int, stdDevs float64) ([]float64, []float64, []float64) {
	if len(values) == 0 {
		return nil, nil, nil
	}
	middle := nanSeries(len(values))
	upper := nanSeries(len(values))
	lower := nanSeries(len(values))
	if period <= 0 {
		return middle, upper, lower
	}
	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]
		mean, std := MeanStd(window)
		middle[i] = mean
		upper[i] = mean + stdDevs*std
		lower[i] = mean - stdDevs*std
	}
	return middle, upper, lower
}

// WindowMinMax returns the min of lows and max of highs over the trailing window bars.
func WindowMinMax(lows, highs []float64, window int) (float64, float64, bool) {
	n := len(lows)
	if n == 0 || n != len(highs) {
		return 0, 0, false
	}
	start := 0
	if window > 0 && n > window {
		start = n - window
	}
	lo := math.Inf(1)
	hi := math.Inf(-1)
	for i := start; i < n; i++ {
		if !math.IsNaN(lows[i]) && lows[i] < lo {
			lo = lows[i]
		}
		if !math.IsNaN(highs[i]) && highs[i] > hi {
			hi = highs[i]
		}
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, 0, false
	}
	return lo, hi, true
}

// Last returns the final element and false when the series is empty or ends in NaN.
func Last(series []float64) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}
	v := series[len(series)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
