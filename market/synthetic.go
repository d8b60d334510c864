package market

import (
	"math"
	"math/rand"
	"time"
)

// SyntheticConfig controls the random-walk generator used by the demo
// command when no real dataset is at hand.
type SyntheticConfig struct {
	Seed       int64
	Bars       int
	StartPrice float64
	Volatility float64       // per-bar stddev as a fraction of price
	Interval   time.Duration // bar spacing
	Start      time.Time
}

// Synthetic generates a deterministic random-walk OHLCV series. The walk
// carries a mild sinusoidal drift so crossover and band rules have something
// to trigger on.
func Synthetic(cfg SyntheticConfig) []Bar {
	if cfg.Bars <= 0 {
		return nil
	}
	if cfg.StartPrice <= 0 {
		cfg.StartPrice = 100
	}
	if cfg.Volatility <= 0 {
		cfg.Volatility = 0.01
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	bars := make([]Bar, 0, cfg.Bars)

	price := cfg.StartPrice
	for i := 0; i < cfg.Bars; i++ {
		drift := 0.3 * cfg.Volatility * math.Sin(float64(i)/40)
		ret := drift + cfg.Volatility*rng.NormFloat64()

		open := price
		close := open * (1 + ret)
		high := math.Max(open, close) * (1 + 0.3*cfg.Volatility*rng.Float64())
		low := math.Min(open, close) * (1 - 0.3*cfg.Volatility*rng.Float64())
		volume := 1000 + 9000*rng.Float64()
		if math.Abs(ret) > cfg.Volatility {
			volume *= 1.5 // big moves carry more volume
		}

		bars = append(bars, Bar{
			Time:   cfg.Start.Add(time.Duration(i) * cfg.Interval),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: volume,
		})
		price = close
	}
	return bars
}
