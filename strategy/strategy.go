// Package strategy turns indicator values into discrete trade decisions.
// Rules are pure: the only state a crossover check needs is the previous
// bar, and the caller supplies it.
package strategy

import (
	"fmt"
	"strings"

	"stratsim/market"
)

// Decision is the discrete trade action derived from one bar.
type Decision int8

const (
	Sell Decision = -1
	Hold Decision = 0
	Buy  Decision = 1
)

func (d Decision) String() string {
	switch d {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "hold"
	}
}

// Rule produces a Decision from a bar and, for crossover detection, the
// immediately preceding bar. prev is nil at series start; crossover
// conditions are then simply false.
type Rule interface {
	Name() string
	Evaluate(bar market.Bar, prev *market.Bar) (Decision, error)
}

// Params are the signal thresholds shared by the rule variants.
type Params struct {
	RSIOversold   float64
	RSIOverbought float64
	MinAgreement  int     // voting rule: votes required on one side
	VolumeRatio   float64 // voting rule: bonus-vote threshold
}

func DefaultParams() Params {
	return Params{
		RSIOversold:   30,
		RSIOverbought: 70,
		MinAgreement:  2,
		VolumeRatio:   1.2,
	}
}

// ByName builds a rule variant. Supported: rsi_macd, ma_crossover,
// bollinger_rsi, combined.
func ByName(name string, p Params) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rsi_macd":
		return &ThresholdRule{Params: p}, nil
	case "ma_crossover":
		return &CrossoverRule{}, nil
	case "bollinger_rsi":
		return &BandRule{Params: p}, nil
	case "combined", "":
		return &VotingRule{Params: p}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: rsi_macd, ma_crossover, bollinger_rsi, combined)", name)
	}
}

// Shared sub-conditions. Each reads only attached indicator values and
// reports the buy-side and sell-side condition for one indicator family.

func rsiExtremes(bar market.Bar, p Params) (oversold, overbought bool, err error) {
	rsi, err := bar.Indicator(market.IndRSI)
	if err != nil {
		return false, false, err
	}
	return rsi < p.RSIOversold, rsi > p.RSIOverbought, nil
}

func macdCross(bar market.Bar, prev *market.Bar) (up, down bool, err error) {
	if prev == nil {
		return false, false, nil
	}

	line, err := bar.Indicator(market.IndMACD)
	if err != nil {
		return false, false, err
	}
	signal, err := bar.Indicator(market.IndMACDSignal)
	if err != nil {
		return false, false, err
	}
	prevLine, err := prev.Indicator(market.IndMACD)
	if err != nil {
		return false, false, err
	}
	prevSignal, err := prev.Indicator(market.IndMACDSignal)
	if err != nil {
		return false, false, err
	}

	up = line > signal && prevLine <= prevSignal
	down = line < signal && prevLine >= prevSignal
	return up, down, nil
}

func smaCross(bar market.Bar, prev *market.Bar) (golden, death bool, err error) {
	if prev == nil {
		return false, false, nil
	}

	short, err := bar.Indicator(market.IndSMAShort)
	if err != nil {
		return false, false, err
	}
	long, err := bar.Indicator(market.IndSMALong)
	if err != nil {
		return false, false, err
	}
	prevShort, err := prev.Indicator(market.IndSMAShort)
	if err != nil {
		return false, false, err
	}
	prevLong, err := prev.Indicator(market.IndSMALong)
	if err != nil {
		return false, false, err
	}

	golden = short > long && prevShort <= prevLong
	death = short < long && prevShort >= prevLong
	return golden, death, nil
}

func bandTouch(bar market.Bar) (lower, upper bool, err error) {
	lowerBand, err := bar.Indicator(market.IndBBLower)
	if err != nil {
		return false, false, err
	}
	upperBand, err := bar.Indicator(market.IndBBUpper)
	if err != nil {
		return false, false, err
	}

	// Within 1% of the band counts as a touch.
	lower = bar.Close <= lowerBand*1.01
	upper = bar.Close >= upperBand*0.99
	return lower, upper, nil
}
