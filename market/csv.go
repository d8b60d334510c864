package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCSV reads an OHLCV bar series from a CSV file with the canonical
// header:
//
//	time,open,high,low,close,volume
//
// Timestamps are RFC3339 or unix seconds. Rows must already be in ascending
// time order; indicator columns are not read here, they are attached by the
// indicators package.
func LoadCSV(path string) ([]Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var bars []Bar
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read bars %s: %w", path, err)
		}
		line++

		if line == 1 && strings.EqualFold(rec[0], "time") {
			continue
		}
		if len(rec) < 6 {
			return nil, fmt.Errorf("read bars %s: line %d: want 6 fields, got %d", path, line, len(rec))
		}

		ts, err := parseTime(rec[0])
		if err != nil {
			return nil, fmt.Errorf("read bars %s: line %d: %w", path, line, err)
		}

		var vals [5]float64
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("read bars %s: line %d field %d: %w", path, line, i+1, err)
			}
			vals[i] = v
		}

		bars = append(bars, Bar{
			Time:   ts,
			Open:   vals[0],
			High:   vals[1],
			Low:    vals[2],
			Close:  vals[3],
			Volume: vals[4],
		})
	}

	if !SortedByTime(bars) {
		return nil, fmt.Errorf("read bars %s: series not in ascending time order", path)
	}
	return bars, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("bad timestamp %q", s)
}
