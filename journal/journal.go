// Package journal persists the trade ledger and equity curve a run
// produces, to CSV files or SQLite.
package journal

import (
	"time"

	"stratsim/account"
)

// TradeRecord is one closed trade as persisted.
type TradeRecord struct {
	TradeID    string
	Instrument string
	Units      float64
	EntryPrice float64
	ExitPrice  float64
	EntryTime  time.Time
	ExitTime   time.Time
	PnL        float64
	PnLPct     float64
	Reason     string
}

// EquitySnapshot is one equity-curve point as persisted.
type EquitySnapshot struct {
	Time       time.Time
	Instrument string
	Value      float64 // portfolio value incl. unrealized P/L
	Capital    float64 // realized capital only
	Drawdown   float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// FromTrade converts a ledger entry into its persisted form.
func FromTrade(t account.Trade) TradeRecord {
	return TradeRecord{
		TradeID:    t.ID,
		Instrument: t.Instrument,
		Units:      float64(t.Side) * t.Units,
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		EntryTime:  t.EntryTime,
		ExitTime:   t.ExitTime,
		PnL:        t.PnL,
		PnLPct:     t.PnLPct,
		Reason:     string(t.Reason),
	}
}
