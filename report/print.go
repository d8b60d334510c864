package report

import (
	"fmt"
	"io"
	"math"
)

// Print renders the summary as a fixed-width text report. A run that
// produced no trades is reported as such, distinct from a failed run.
func Print(w io.Writer, instrument string, s Summary) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " Backtest Result: %s\n", instrument)
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capital")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Initial Capital: %.2f\n", s.InitialCapital)
	fmt.Fprintf(w, "Final Capital:   %.2f\n", s.FinalCapital)
	fmt.Fprintf(w, "Net P/L:         %.2f\n", s.NetPL)
	fmt.Fprintf(w, "Return:          %.2f%%\n", s.ReturnPct*100)

	if s.Trades == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No trades executed.")
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:          %d\n", s.Trades)
	fmt.Fprintf(w, "Wins:            %d (%.1f%%)\n", s.Wins, s.WinRate*100)
	fmt.Fprintf(w, "Losses:          %d\n", s.Losses)
	fmt.Fprintf(w, "Average Win:     %.2f\n", s.AvgWin)
	fmt.Fprintf(w, "Average Loss:    %.2f\n", s.AvgLoss)
	fmt.Fprintf(w, "Largest Win:     %.2f\n", s.LargestWin)
	fmt.Fprintf(w, "Largest Loss:    %.2f\n", s.LargestLoss)
	if math.IsInf(s.ProfitFactor, 1) {
		fmt.Fprintf(w, "Profit Factor:   inf\n")
	} else {
		fmt.Fprintf(w, "Profit Factor:   %.2f\n", s.ProfitFactor)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Risk")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Sharpe Ratio:    %.2f\n", s.SharpeRatio)
	fmt.Fprintf(w, "Sortino Ratio:   %.2f\n", s.SortinoRatio)
	fmt.Fprintf(w, "Max Drawdown:    %.2f%%\n", s.MaxDrawdown*100)
	fmt.Fprintf(w, "Avg Holding:     %s\n", s.AvgHolding)
	fmt.Fprintln(w)
}
