package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"stratsim/account"
	"stratsim/backtest"
	"stratsim/config"
	"stratsim/indicators"
	"stratsim/journal"
	"stratsim/market"
	"stratsim/report"
	"stratsim/strategy"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a strategy backtest over historical bars",
	Long: `Backtest runs a signal rule over one or more OHLCV bar series under
the configured risk limits and prints a performance summary.

Bars come from a CSV file (one instrument, --bars with --instrument) or a
parquet archive holding any number of instruments (--parquet).

Example:
  stratsim backtest --bars data/reliance.csv --instrument RELIANCE --strategy combined`,
	RunE: runBacktest,
}

var (
	btConfigPath string
	btBarsPath   string
	btParquet    string
	btInstrument string
	btStrategy   string
	btJournalDB  string
	btIsolate    bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btConfigPath, "config", "c", "", "path to YAML/JSON config file")
	backtestCmd.Flags().StringVarP(&btBarsPath, "bars", "b", "", "path to OHLCV bar CSV (time,open,high,low,close,volume)")
	backtestCmd.Flags().StringVarP(&btParquet, "parquet", "p", "", "path to parquet bar archive (may hold multiple instruments)")
	backtestCmd.Flags().StringVarP(&btInstrument, "instrument", "i", "", "instrument id for CSV input")
	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "", "signal rule (rsi_macd, ma_crossover, bollinger_rsi, combined)")
	backtestCmd.Flags().StringVarP(&btJournalDB, "db", "d", "", "journal to this SQLite database")
	backtestCmd.Flags().BoolVar(&btIsolate, "isolate", false, "give each instrument its own capital instead of a shared account")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg := config.Default()
	if btConfigPath != "" {
		var err error
		cfg, err = config.Load(btConfigPath)
		if err != nil {
			return err
		}
	}
	if btStrategy != "" {
		cfg.Strategy.Name = btStrategy
	}
	if btJournalDB != "" {
		cfg.Journal = config.JournalConfig{Type: "sqlite", DBPath: btJournalDB}
	}
	if btIsolate {
		cfg.Account.IsolateCapital = true
	}

	series, err := loadSeries()
	if err != nil {
		return err
	}
	for instrument, bars := range series {
		series[instrument] = indicators.Attach(bars, cfg.IndicatorParams())
	}

	rule, err := strategy.ByName(cfg.Strategy.Name, cfg.Params())
	if err != nil {
		return err
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
	}

	runner := &backtest.Runner{
		Rule: rule,
		Book: account.NewBook(cfg.Limits()),
		Log:  log,
	}
	if j != nil {
		runner.Journal = j
	}
	if cfg.Account.IsolateCapital {
		limits := cfg.Limits()
		runner.BookFactory = func() *account.Book { return account.NewBook(limits) }
	}

	results := runner.RunAll(context.Background(), series)
	printResults(cfg, results)
	return nil
}

func loadSeries() (map[string][]market.Bar, error) {
	switch {
	case btParquet != "":
		return market.ReadParquet(btParquet)
	case btBarsPath != "":
		if btInstrument == "" {
			return nil, fmt.Errorf("--instrument is required with --bars")
		}
		bars, err := market.LoadCSV(btBarsPath)
		if err != nil {
			return nil, err
		}
		return map[string][]market.Bar{btInstrument: bars}, nil
	default:
		return nil, fmt.Errorf("one of --bars or --parquet is required")
	}
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "", "none":
		return nil, nil
	case "csv":
		return journal.NewCSV(jc.TradesFile, jc.EquityFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}

func printResults(cfg *config.Config, results map[string]backtest.Result) {
	instruments := make([]string, 0, len(results))
	for instrument := range results {
		instruments = append(instruments, instrument)
	}
	sort.Strings(instruments)

	if cfg.Account.IsolateCapital || len(results) == 1 {
		for _, instrument := range instruments {
			res := results[instrument]
			s := report.Compute(res.Trades, res.Equity, cfg.Account.InitialCapital, res.FinalCapital)
			report.Print(os.Stdout, instrument, s)
		}
		return
	}

	// Shared account: one combined summary over the whole run.
	var trades []account.Trade
	var equity []backtest.EquityPoint
	var finalCapital float64
	for _, instrument := range instruments {
		res := results[instrument]
		trades = append(trades, res.Trades...)
		equity = append(equity, res.Equity...)
		finalCapital = res.FinalCapital
	}
	s := report.Compute(trades, equity, cfg.Account.InitialCapital, finalCapital)
	report.Print(os.Stdout, fmt.Sprintf("%d instruments", len(instruments)), s)
}
