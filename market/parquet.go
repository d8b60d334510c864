package market

import (
	"fmt"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"
)

func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// BarRecord is the parquet on-disk schema for OHLCV bars. Indicator values
// are not persisted; they are recomputed from the raw series.
type BarRecord struct {
	Instrument string  `parquet:"instrument"`
	Timestamp  int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open       float64 `parquet:"open"`
	High       float64 `parquet:"high"`
	Low        float64 `parquet:"low"`
	Close      float64 `parquet:"close"`
	Volume     float64 `parquet:"volume"`
}

// WriteParquet stores a bar series for one instrument.
func WriteParquet(path, instrument string, bars []Bar) error {
	records := make([]BarRecord, 0, len(bars))
	for _, b := range bars {
		records = append(records, BarRecord{
			Instrument: instrument,
			Timestamp:  b.Time.UnixMilli(),
			Open:       b.Open,
			High:       b.High,
			Low:        b.Low,
			Close:      b.Close,
			Volume:     b.Volume,
		})
	}
	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("write bars %s: %w", path, err)
	}
	return nil
}

// ReadParquet loads all bar series in a parquet file, keyed by instrument.
// Each series comes back in ascending time order.
func ReadParquet(path string) (map[string][]Bar, error) {
	records, err := parquet.ReadFile[BarRecord](path)
	if err != nil {
		return nil, fmt.Errorf("read bars %s: %w", path, err)
	}

	series := make(map[string][]Bar)
	for _, r := range records {
		series[r.Instrument] = append(series[r.Instrument], Bar{
			Time:   msToTime(r.Timestamp),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}

	for instrument, bars := range series {
		sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
		if !SortedByTime(bars) {
			return nil, fmt.Errorf("read bars %s: duplicate timestamps for %s", path, instrument)
		}
	}
	return series, nil
}
