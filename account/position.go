package account

import "time"

// Side: +1 long, -1 short.
type Side int8

const (
	Long  Side = +1
	Short Side = -1
)

// CloseReason records why a position was closed.
type CloseReason string

const (
	ReasonSignal     CloseReason = "signal"
	ReasonStopLoss   CloseReason = "stop_loss"
	ReasonTakeProfit CloseReason = "take_profit"
	ReasonEndOfRun   CloseReason = "end_of_run"
)

// Position is an open, unrealized exposure in one instrument. The Book holds
// at most one per instrument.
type Position struct {
	Instrument string
	Side       Side
	EntryPrice float64
	Units      float64 // fractional units allowed
	StopLoss   float64
	TakeProfit float64
	EntryTime  time.Time
	EntryValue float64 // entry price x units
}

// Trade is the realized, closed record of a Position. Immutable once
// created.
type Trade struct {
	ID         string
	Instrument string
	Side       Side
	Units      float64
	EntryPrice float64
	ExitPrice  float64
	EntryTime  time.Time
	ExitTime   time.Time
	PnL        float64
	PnLPct     float64
	Holding    time.Duration
	Reason     CloseReason
}
