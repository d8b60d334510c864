// Package backtest drives bar series through the signal rule and the
// account book, one instrument at a time, in strict temporal order.
package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"stratsim/account"
	"stratsim/journal"
	"stratsim/market"
	"stratsim/strategy"
)

// runState tracks where the loop is for one instrument.
type runState int8

const (
	stateIdle runState = iota // no bars consumed
	stateScanning
	stateClosed
)

// EquityPoint is one sample of portfolio value on the equity curve.
type EquityPoint struct {
	Time  time.Time
	Value float64
}

// Result is what one instrument's run produces: the ordered trade ledger,
// the equity series, and the account capital after the final bar.
type Result struct {
	Instrument   string
	Trades       []account.Trade
	Equity       []EquityPoint
	FinalCapital float64
}

// Runner executes backtests. Book is shared across instruments unless
// BookFactory is set, in which case every instrument gets its own isolated
// book (independent capital). Runs are always serialized: the book has no
// locking and each bar's risk decisions depend on the state the previous
// bar left behind.
type Runner struct {
	Rule strategy.Rule
	Book *account.Book

	// BookFactory, when non-nil, builds a fresh book per instrument.
	BookFactory func() *account.Book

	// Journal, when non-nil, receives every closed trade and equity point.
	Journal journal.Journal

	Log zerolog.Logger
}

// Run walks one instrument's bars in ascending time order. Each bar is
// processed exactly once: breach check first, then the signal, then equity
// accounting. A position stopped out on a bar is not re-opened by that
// same bar's signal. A position still open after the final bar is
// force-closed at its close price with reason end_of_run.
//
// An empty series is not an error; it yields an empty ledger and equity
// curve. On error the result holds everything accumulated so far.
func (r *Runner) Run(ctx context.Context, instrument string, bars []market.Bar) (Result, error) {
	res := Result{Instrument: instrument}
	book := r.Book
	if book == nil {
		return res, fmt.Errorf("backtest %s: nil book", instrument)
	}
	if r.Rule == nil {
		return res, fmt.Errorf("backtest %s: nil rule", instrument)
	}
	if !market.SortedByTime(bars) {
		return res, fmt.Errorf("backtest %s: bars not in ascending time order", instrument)
	}

	state := stateIdle
	var prev *market.Bar
	var lastDay time.Time

	for i := range bars {
		if err := ctx.Err(); err != nil {
			res.FinalCapital = book.Capital()
			return res, fmt.Errorf("backtest %s: %w", instrument, err)
		}

		bar := bars[i]
		if state == stateIdle {
			state = stateScanning
			lastDay = barDay(bar.Time)
		} else if day := barDay(bar.Time); day.After(lastDay) {
			book.StartNewDay()
			lastDay = day
		}

		// 1) Stop/target breaches are resolved before any fresh signal.
		breached := false
		if t := book.CheckBreach(instrument, bar.Close, bar.Time); t != nil {
			breached = true
			if err := r.ledger(&res, *t); err != nil {
				return res, err
			}
		}

		// 2) Signal.
		decision, err := r.Rule.Evaluate(bar, prev)
		if err != nil {
			res.FinalCapital = book.Capital()
			return res, fmt.Errorf("backtest %s: %w", instrument, err)
		}

		// 3) Position transition under the book's admission control.
		switch decision {
		case strategy.Buy:
			// A position stopped out on this bar does not re-open on
			// this bar's signal.
			if !breached && book.CanOpen(instrument) {
				units, err := book.PositionSize(bar.Close)
				if err != nil {
					res.FinalCapital = book.Capital()
					return res, fmt.Errorf("backtest %s: %w", instrument, err)
				}
				if _, err := book.Open(instrument, account.Long, bar.Close, units, bar.Time); err != nil {
					res.FinalCapital = book.Capital()
					return res, fmt.Errorf("backtest %s: %w", instrument, err)
				}
			}
		case strategy.Sell:
			if t := book.Close(instrument, bar.Close, bar.Time, account.ReasonSignal); t != nil {
				if err := r.ledger(&res, *t); err != nil {
					return res, err
				}
			}
		}

		// 4) Equity accounting at this bar's close.
		value := book.PortfolioValue(map[string]float64{instrument: bar.Close})
		res.Equity = append(res.Equity, EquityPoint{Time: bar.Time, Value: value})
		if r.Journal != nil {
			err := r.Journal.RecordEquity(journal.EquitySnapshot{
				Time:       bar.Time,
				Instrument: instrument,
				Value:      value,
				Capital:    book.Capital(),
				Drawdown:   book.Drawdown(),
			})
			if err != nil {
				res.FinalCapital = book.Capital()
				return res, fmt.Errorf("backtest %s: journal: %w", instrument, err)
			}
		}

		prev = &bars[i]
	}

	// Scanning -> Closed: liquidate whatever is still open at the final
	// bar's close.
	if state == stateScanning {
		last := bars[len(bars)-1]
		if t := book.Close(instrument, last.Close, last.Time, account.ReasonEndOfRun); t != nil {
			if err := r.ledger(&res, *t); err != nil {
				return res, err
			}
		}
		state = stateClosed
	}

	res.FinalCapital = book.Capital()
	return res, nil
}

// RunAll runs every instrument's series, serialized, in instrument order.
// A failing instrument is logged and skipped; its partial result is kept,
// and the run continues.
func (r *Runner) RunAll(ctx context.Context, series map[string][]market.Bar) map[string]Result {
	instruments := make([]string, 0, len(series))
	for instrument := range series {
		instruments = append(instruments, instrument)
	}
	sort.Strings(instruments)

	results := make(map[string]Result, len(series))
	for _, instrument := range instruments {
		runner := *r
		if r.BookFactory != nil {
			runner.Book = r.BookFactory()
		}

		res, err := runner.Run(ctx, instrument, series[instrument])
		if err != nil {
			r.Log.Error().Err(err).Str("instrument", instrument).Msg("instrument run failed, skipping")
		}
		results[instrument] = res

		if ctx.Err() != nil {
			break
		}
	}
	return results
}

func (r *Runner) ledger(res *Result, t account.Trade) error {
	res.Trades = append(res.Trades, t)
	if r.Journal == nil {
		return nil
	}
	if err := r.Journal.RecordTrade(journal.FromTrade(t)); err != nil {
		return fmt.Errorf("backtest %s: journal: %w", res.Instrument, err)
	}
	return nil
}

func barDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
