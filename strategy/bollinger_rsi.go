package strategy

import "stratsim/market"

// BandRule trades Bollinger band touches confirmed by RSI: buy at the lower
// band while oversold, sell at the upper band while overbought.
type BandRule struct {
	Params Params
}

func (r *BandRule) Name() string { return "bollinger_rsi" }

func (r *BandRule) Evaluate(bar market.Bar, prev *market.Bar) (Decision, error) {
	oversold, overbought, err := rsiExtremes(bar, r.Params)
	if err != nil {
		return Hold, err
	}
	lower, upper, err := bandTouch(bar)
	if err != nil {
		return Hold, err
	}

	if lower && oversold {
		return Buy, nil
	}
	if upper && overbought {
		return Sell, nil
	}
	return Hold, nil
}
