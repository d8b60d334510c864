// Package report derives performance metrics from a run's trade ledger and
// equity curve, and renders a text summary.
package report

import (
	"math"
	"time"

	"stratsim/account"
	"stratsim/backtest"
)

// Summary holds the performance metrics for one run.
type Summary struct {
	InitialCapital float64
	FinalCapital   float64
	NetPL          float64
	ReturnPct      float64

	Trades      int
	Wins        int
	Losses      int
	WinRate     float64
	AvgWin      float64
	AvgLoss     float64
	LargestWin  float64
	LargestLoss float64

	// ProfitFactor is +Inf when there are wins and no losses.
	ProfitFactor float64

	SharpeRatio  float64
	SortinoRatio float64
	MaxDrawdown  float64 // <= 0, worst peak-to-trough on the equity curve

	AvgHolding time.Duration
}

// periodsPerYear annualizes Sharpe/Sortino assuming daily samples.
const periodsPerYear = 252

// Compute builds a Summary from the ledger and equity series. A run with no
// trades yields a Summary with Trades == 0; callers report that as "no
// trades executed" rather than an error.
func Compute(trades []account.Trade, equity []backtest.EquityPoint, initialCapital, finalCapital float64) Summary {
	s := Summary{
		InitialCapital: initialCapital,
		FinalCapital:   finalCapital,
		NetPL:          finalCapital - initialCapital,
		Trades:         len(trades),
	}
	if initialCapital > 0 {
		s.ReturnPct = s.NetPL / initialCapital
	}

	var winSum, lossSum float64
	var holding time.Duration
	for _, t := range trades {
		holding += t.Holding
		switch {
		case t.PnL > 0:
			s.Wins++
			winSum += t.PnL
			if t.PnL > s.LargestWin {
				s.LargestWin = t.PnL
			}
		case t.PnL < 0:
			s.Losses++
			lossSum += t.PnL
			if t.PnL < s.LargestLoss {
				s.LargestLoss = t.PnL
			}
		}
	}
	if s.Trades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Trades)
		s.AvgHolding = holding / time.Duration(s.Trades)
	}
	if s.Wins > 0 {
		s.AvgWin = winSum / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = lossSum / float64(s.Losses)
	}
	switch {
	case s.Losses > 0:
		s.ProfitFactor = winSum / -lossSum
	case s.Wins > 0:
		s.ProfitFactor = math.Inf(1)
	}

	s.SharpeRatio, s.SortinoRatio, s.MaxDrawdown = curveMetrics(equity)
	return s
}

// curveMetrics derives risk-adjusted ratios and the worst drawdown from
// per-bar equity returns.
func curveMetrics(equity []backtest.EquityPoint) (sharpe, sortino, maxDD float64) {
	if len(equity) < 2 {
		return 0, 0, 0
	}

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Value
		if prev == 0 {
			continue
		}
		returns = append(returns, (equity[i].Value-prev)/prev)
	}
	if len(returns) == 0 {
		return 0, 0, 0
	}

	mean := sum(returns) / float64(len(returns))
	sd := stddev(returns, mean)
	if sd > 0 {
		sharpe = mean / sd * math.Sqrt(periodsPerYear)
	}

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	if len(downside) > 0 {
		dmean := sum(downside) / float64(len(downside))
		dsd := stddev(downside, dmean)
		if dsd > 0 {
			sortino = mean / dsd * math.Sqrt(periodsPerYear)
		}
	}

	// Worst decline from the running equity peak.
	peak := equity[0].Value
	for _, p := range equity {
		if p.Value > peak {
			peak = p.Value
		}
		if peak > 0 {
			if dd := (p.Value - peak) / peak; dd < maxDD {
				maxDD = dd
			}
		}
	}
	return sharpe, sortino, maxDD
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

// stddev is the sample standard deviation around the given mean.
func stddev(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
