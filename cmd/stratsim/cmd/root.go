package cmd

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "stratsim",
	Short: "A rule-based trading strategy simulator",
	Long: `Stratsim evaluates rule-based trading strategies against historical
price series and reports their performance.

It provides tools for:
  - Backtesting signal rules (RSI/MACD, MA crossover, Bollinger, combined voting)
  - Risk-constrained position management with stop-loss/take-profit/drawdown limits
  - Journaling trade ledgers and equity curves to CSV or SQLite
  - Performance summaries (win rate, profit factor, Sharpe, Sortino, drawdown)`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger() zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(lvl)
}
