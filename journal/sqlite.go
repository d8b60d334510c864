package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, instrument, units, entry_price, exit_price, entry_time, exit_time, pnl, pnl_pct, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.Instrument, t.Units, t.EntryPrice, t.ExitPrice,
		t.EntryTime, t.ExitTime, t.PnL, t.PnLPct, t.Reason,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, instrument, value, capital, drawdown)
		VALUES (?, ?, ?, ?, ?)`,
		e.Time, e.Instrument, e.Value, e.Capital, e.Drawdown,
	)
	return err
}

// ListTrades returns the full ledger ordered by exit time.
func (j *SQLiteJournal) ListTrades() ([]TradeRecord, error) {
	return j.queryTrades(`
		SELECT trade_id, instrument, units, entry_price, exit_price,
		       entry_time, exit_time, pnl, pnl_pct, reason
		FROM trades ORDER BY exit_time, trade_id`)
}

// ListTradesByInstrument returns one instrument's trades ordered by exit
// time.
func (j *SQLiteJournal) ListTradesByInstrument(instrument string) ([]TradeRecord, error) {
	return j.queryTrades(`
		SELECT trade_id, instrument, units, entry_price, exit_price,
		       entry_time, exit_time, pnl, pnl_pct, reason
		FROM trades WHERE instrument = ? ORDER BY exit_time, trade_id`, instrument)
}

// ListTradesClosedBetween returns trades with exit time in [start, end).
func (j *SQLiteJournal) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	return j.queryTrades(`
		SELECT trade_id, instrument, units, entry_price, exit_price,
		       entry_time, exit_time, pnl, pnl_pct, reason
		FROM trades WHERE exit_time >= ? AND exit_time < ?
		ORDER BY exit_time, trade_id`, start, end)
}

func (j *SQLiteJournal) queryTrades(q string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []TradeRecord
	for rows.Next() {
		var t TradeRecord
		err := rows.Scan(
			&t.TradeID, &t.Instrument, &t.Units, &t.EntryPrice, &t.ExitPrice,
			&t.EntryTime, &t.ExitTime, &t.PnL, &t.PnLPct, &t.Reason,
		)
		if err != nil {
			return nil, err
		}
		recs = append(recs, t)
	}
	return recs, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
