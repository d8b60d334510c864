package strategy

import "stratsim/market"

// ThresholdRule trades RSI extremes confirmed by MACD crosses.
//
// Buy: RSI below oversold AND the MACD line crossed above its signal line on
// this bar. Sell: RSI above overbought OR the MACD line crossed below its
// signal line. The sell side needs only one leg.
type ThresholdRule struct {
	Params Params
}

func (r *ThresholdRule) Name() string { return "rsi_macd" }

func (r *ThresholdRule) Evaluate(bar market.Bar, prev *market.Bar) (Decision, error) {
	oversold, overbought, err := rsiExtremes(bar, r.Params)
	if err != nil {
		return Hold, err
	}
	crossUp, crossDown, err := macdCross(bar, prev)
	if err != nil {
		return Hold, err
	}

	if oversold && crossUp {
		return Buy, nil
	}
	if overbought || crossDown {
		return Sell, nil
	}
	return Hold, nil
}
