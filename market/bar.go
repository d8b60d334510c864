package market

import (
	"fmt"
	"math"
	"time"
)

// Indicator names attached to bars by the indicators package. The signal
// rules look values up under these keys.
const (
	IndRSI         = "rsi"
	IndMACD        = "macd"
	IndMACDSignal  = "macd_signal"
	IndSMAShort    = "sma_short"
	IndSMALong     = "sma_long"
	IndBBUpper     = "bb_upper"
	IndBBMiddle    = "bb_middle"
	IndBBLower     = "bb_lower"
	IndVolumeRatio = "volume_ratio"
)

// Bar is one OHLCV observation plus the indicator values computed for it.
// Bars are immutable once produced; the simulation never writes to them.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	Indicators map[string]float64
}

// Indicator returns the named indicator value. A missing or non-finite value
// is an error: the indicator collaborator drops warm-up rows, so a bar that
// reaches the engine with a bad value is invalid input, not a hold.
func (b Bar) Indicator(name string) (float64, error) {
	v, ok := b.Indicators[name]
	if !ok {
		return 0, fmt.Errorf("bar %s: indicator %q missing", b.Time.Format(time.RFC3339), name)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("bar %s: indicator %q is not finite", b.Time.Format(time.RFC3339), name)
	}
	return v, nil
}

// SortedByTime reports whether the series is in strictly ascending timestamp
// order, the only order the simulation accepts.
func SortedByTime(bars []Bar) bool {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return false
		}
	}
	return true
}
