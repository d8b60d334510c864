package strategy

import "stratsim/market"

// CrossoverRule trades SMA crossovers: buy the golden cross (short average
// crossing above the long), sell the death cross. With no previous bar there
// is no cross, so the decision is Hold.
type CrossoverRule struct{}

func (r *CrossoverRule) Name() string { return "ma_crossover" }

func (r *CrossoverRule) Evaluate(bar market.Bar, prev *market.Bar) (Decision, error) {
	golden, death, err := smaCross(bar, prev)
	if err != nil {
		return Hold, err
	}

	if golden {
		return Buy, nil
	}
	if death {
		return Sell, nil
	}
	return Hold, nil
}
