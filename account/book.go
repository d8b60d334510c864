// Package account owns the simulated account: capital, its high-water mark,
// the daily checkpoint, and every open position. All capital mutation goes
// through the Book; nothing else in the module touches money.
package account

import (
	"errors"
	"fmt"
	"time"

	"stratsim/pkg/id"
)

var (
	// ErrInvalidInput marks bad numeric input (non-positive price or size).
	ErrInvalidInput = errors.New("invalid input")

	// ErrPositionExists is the programmer-error guard for opening over an
	// existing position. Callers must check CanOpen first.
	ErrPositionExists = errors.New("position already exists")
)

// Limits are the risk constraints the Book enforces. Fractions are of
// capital, e.g. 0.02 for a 2% stop.
type Limits struct {
	InitialCapital  float64
	PositionSizePct float64
	StopLossPct     float64
	TakeProfitPct   float64
	MaxPositions    int
	MaxDailyLossPct float64
	MaxDrawdownPct  float64
}

func DefaultLimits() Limits {
	return Limits{
		InitialCapital:  100_000,
		PositionSizePct: 0.1,
		StopLossPct:     0.015,
		TakeProfitPct:   0.03,
		MaxPositions:    3,
		MaxDailyLossPct: 0.04,
		MaxDrawdownPct:  0.12,
	}
}

// Book tracks account state for a run. It has no internal locking: the
// simulation is sequential by design and the caller owns exclusivity.
type Book struct {
	limits Limits

	capital  float64
	peak     float64
	dayStart float64

	positions map[string]*Position
}

func NewBook(limits Limits) *Book {
	return &Book{
		limits:    limits,
		capital:   limits.InitialCapital,
		peak:      limits.InitialCapital,
		dayStart:  limits.InitialCapital,
		positions: make(map[string]*Position),
	}
}

func (b *Book) Capital() float64     { return b.capital }
func (b *Book) PeakCapital() float64 { return b.peak }
func (b *Book) OpenCount() int       { return len(b.positions) }

// Position returns a copy of the open position for the instrument, if any.
func (b *Book) Position(instrument string) (Position, bool) {
	p, ok := b.positions[instrument]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

// CanOpen reports whether a new position in the instrument is admissible.
// The checks are independent; any one failing blocks the open. No side
// effects.
func (b *Book) CanOpen(instrument string) bool {
	if _, open := b.positions[instrument]; open {
		return false
	}
	if len(b.positions) >= b.limits.MaxPositions {
		return false
	}

	dailyLoss := (b.capital - b.dayStart) / b.dayStart
	if dailyLoss < -b.limits.MaxDailyLossPct {
		return false
	}

	if b.Drawdown() < -b.limits.MaxDrawdownPct {
		return false
	}
	return true
}

// PositionSize returns the units a new position at the given price gets:
// the configured capital fraction divided by price.
func (b *Book) PositionSize(price float64) (float64, error) {
	if price <= 0 {
		return 0, fmt.Errorf("position size: price %.6f: %w", price, ErrInvalidInput)
	}
	return b.capital * b.limits.PositionSizePct / price, nil
}

// Open creates a position with multiplicative stop-loss and take-profit
// levels. Capital is not debited at open; sizing is a capital-fraction
// allocation and realized effects post only at close.
func (b *Book) Open(instrument string, side Side, entry, units float64, ts time.Time) (Position, error) {
	if entry <= 0 || units <= 0 {
		return Position{}, fmt.Errorf("open %s: entry %.6f units %.6f: %w", instrument, entry, units, ErrInvalidInput)
	}
	if _, open := b.positions[instrument]; open {
		return Position{}, fmt.Errorf("open %s: %w", instrument, ErrPositionExists)
	}
	if side != Long && side != Short {
		return Position{}, fmt.Errorf("open %s: side %d: %w", instrument, side, ErrInvalidInput)
	}

	stop := entry * (1 - float64(side)*b.limits.StopLossPct)
	take := entry * (1 + float64(side)*b.limits.TakeProfitPct)

	p := &Position{
		Instrument: instrument,
		Side:       side,
		EntryPrice: entry,
		Units:      units,
		StopLoss:   stop,
		TakeProfit: take,
		EntryTime:  ts,
		EntryValue: entry * units,
	}
	b.positions[instrument] = p
	return *p, nil
}

// Close realizes the position at the exit price and returns the Trade, or
// nil when no position is open for the instrument; callers probe existence
// this way.
func (b *Book) Close(instrument string, exit float64, ts time.Time, reason CloseReason) *Trade {
	p, ok := b.positions[instrument]
	if !ok {
		return nil
	}

	pnl := float64(p.Side) * (exit - p.EntryPrice) * p.Units
	pnlPct := float64(p.Side) * (exit - p.EntryPrice) / p.EntryPrice

	b.capital += pnl
	if b.capital > b.peak {
		b.peak = b.capital
	}
	delete(b.positions, instrument)

	return &Trade{
		ID:         id.New(),
		Instrument: instrument,
		Side:       p.Side,
		Units:      p.Units,
		EntryPrice: p.EntryPrice,
		ExitPrice:  exit,
		EntryTime:  p.EntryTime,
		ExitTime:   ts,
		PnL:        pnl,
		PnLPct:     pnlPct,
		Holding:    ts.Sub(p.EntryTime),
		Reason:     reason,
	}
}

// CheckBreach closes the position when the price has crossed its stop-loss
// or take-profit level, at the level price rather than the observed one.
// The stop-loss check runs first: when a single bar gaps through both
// levels, the pessimistic exit wins. At most one close per call.
func (b *Book) CheckBreach(instrument string, price float64, ts time.Time) *Trade {
	p, ok := b.positions[instrument]
	if !ok {
		return nil
	}

	if float64(p.Side)*(price-p.StopLoss) <= 0 {
		return b.Close(instrument, p.StopLoss, ts, ReasonStopLoss)
	}
	if float64(p.Side)*(price-p.TakeProfit) >= 0 {
		return b.Close(instrument, p.TakeProfit, ts, ReasonTakeProfit)
	}
	return nil
}

// PortfolioValue marks open positions at the supplied prices and returns
// capital plus unrealized P/L. Read-only; never mutates capital. Positions
// without a supplied price are carried at entry value.
func (b *Book) PortfolioValue(prices map[string]float64) float64 {
	total := b.capital
	for instrument, p := range b.positions {
		mark, ok := prices[instrument]
		if !ok {
			continue
		}
		total += float64(p.Side) * (mark*p.Units - p.EntryValue)
	}
	return total
}

// Drawdown is the relative decline of capital from its peak, always <= 0.
func (b *Book) Drawdown() float64 {
	return (b.capital - b.peak) / b.peak
}

// StartNewDay checkpoints capital for the daily-loss limit. The simulation
// calls it when the bar date rolls over.
func (b *Book) StartNewDay() {
	b.dayStart = b.capital
}
