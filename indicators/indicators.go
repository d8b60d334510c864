// Package indicators computes the technical indicator columns the signal
// rules consume. It is the collaborator responsible for the warm-up policy:
// bars whose indicators are undefined never reach the simulation.
package indicators

import (
	"math"

	"stratsim/market"
)

type Config struct {
	RSIPeriod    int
	MACDFast     int
	MACDSlow     int
	MACDSignal   int
	SMAShort     int
	SMALong      int
	BBPeriod     int
	BBStdDev     float64
	VolumePeriod int
}

func DefaultConfig() Config {
	return Config{
		RSIPeriod:    14,
		MACDFast:     12,
		MACDSlow:     26,
		MACDSignal:   9,
		SMAShort:     20,
		SMALong:      50,
		BBPeriod:     20,
		BBStdDev:     2,
		VolumePeriod: 20,
	}
}

// Attach computes every indicator over the series and returns new bars with
// the values attached. Rows in the warm-up window of any indicator are
// dropped, so callers can feed the result straight into the backtest.
func Attach(bars []market.Bar, cfg Config) []market.Bar {
	n := len(bars)
	if n == 0 {
		return nil
	}

	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	rsi := RSI(closes, cfg.RSIPeriod)
	macd, macdSignal := MACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	smaShort := SMA(closes, cfg.SMAShort)
	smaLong := SMA(closes, cfg.SMALong)
	bbUpper, bbMiddle, bbLower := Bollinger(closes, cfg.BBPeriod, cfg.BBStdDev)

	volSMA := SMA(volumes, cfg.VolumePeriod)
	volRatio := make([]float64, n)
	for i := range volRatio {
		if math.IsNaN(volSMA[i]) || volSMA[i] == 0 {
			volRatio[i] = math.NaN()
		} else {
			volRatio[i] = volumes[i] / volSMA[i]
		}
	}

	out := make([]market.Bar, 0, n)
	for i, b := range bars {
		vals := map[string]float64{
			market.IndRSI:         rsi[i],
			market.IndMACD:        macd[i],
			market.IndMACDSignal:  macdSignal[i],
			market.IndSMAShort:    smaShort[i],
			market.IndSMALong:     smaLong[i],
			market.IndBBUpper:     bbUpper[i],
			market.IndBBMiddle:    bbMiddle[i],
			market.IndBBLower:     bbLower[i],
			market.IndVolumeRatio: volRatio[i],
		}

		defined := true
		for _, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				defined = false
				break
			}
		}
		if !defined {
			continue
		}

		b.Indicators = vals
		out = append(out, b)
	}
	return out
}

// SMA is a simple rolling mean. Entries before the window fills are NaN.
func SMA(xs []float64, period int) []float64 {
	out := nans(len(xs))
	if period <= 0 || len(xs) < period {
		return out
	}

	var sum float64
	for i, x := range xs {
		sum += x
		if i >= period {
			sum -= xs[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA is the recursive exponential moving average seeded with the first
// value, alpha = 2/(period+1). Defined for every index.
func EMA(xs []float64, period int) []float64 {
	out := nans(len(xs))
	if period <= 0 || len(xs) == 0 {
		return out
	}

	alpha := 2.0 / (float64(period) + 1.0)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI uses rolling-mean average gains and losses over the period. The first
// defined entry is at index period; an all-gain window reads 100.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	out := nans(n)
	if period <= 0 || n <= period {
		return out
	}

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < n; i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}

		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		switch {
		case avgLoss == 0 && avgGain == 0:
			// flat window, RSI undefined
		case avgLoss == 0:
			out[i] = 100
		default:
			rs := avgGain / avgLoss
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}

// MACD returns the MACD line (fast EMA - slow EMA) and its signal line.
func MACD(closes []float64, fast, slow, signal int) (line, signalLine []float64) {
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	line = make([]float64, len(closes))
	for i := range line {
		line[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine = EMA(line, signal)
	return line, signalLine
}

// Bollinger returns upper, middle, lower bands using a rolling mean and
// sample standard deviation.
func Bollinger(closes []float64, period int, stddevs float64) (upper, middle, lower []float64) {
	n := len(closes)
	middle = SMA(closes, period)
	upper = nans(n)
	lower = nans(n)
	if period <= 1 || n < period {
		return upper, middle, lower
	}

	for i := period - 1; i < n; i++ {
		mean := middle[i]
		var ss float64
		for j := i - period + 1; j <= i; j++ {
			d := closes[j] - mean
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(period-1))
		upper[i] = mean + stddevs*sd
		lower[i] = mean - stddevs*sd
	}
	return upper, middle, lower
}

func nans(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
