package strategy

import "stratsim/market"

// VotingRule combines the RSI, MACD, SMA-crossover, and Bollinger conditions
// into one decision. Each condition that holds casts a vote for its side,
// and a high volume-ratio bar adds a bonus vote to any side already voting.
// A side acts only when it reaches MinAgreement; if both sides reach it, the
// strictly larger count wins. An exact tie is a Hold: contradictory signals
// are not acted on.
type VotingRule struct {
	Params Params
}

func (r *VotingRule) Name() string { return "combined" }

func (r *VotingRule) Evaluate(bar market.Bar, prev *market.Bar) (Decision, error) {
	buyVotes, sellVotes, err := r.votes(bar, prev)
	if err != nil {
		return Hold, err
	}

	minVotes := r.Params.MinAgreement
	buyReady := buyVotes >= minVotes
	sellReady := sellVotes >= minVotes

	switch {
	case buyReady && sellReady:
		if buyVotes > sellVotes {
			return Buy, nil
		}
		if sellVotes > buyVotes {
			return Sell, nil
		}
		return Hold, nil
	case buyReady:
		return Buy, nil
	case sellReady:
		return Sell, nil
	default:
		return Hold, nil
	}
}

func (r *VotingRule) votes(bar market.Bar, prev *market.Bar) (buy, sell int, err error) {
	oversold, overbought, err := rsiExtremes(bar, r.Params)
	if err != nil {
		return 0, 0, err
	}
	if oversold {
		buy++
	}
	if overbought {
		sell++
	}

	crossUp, crossDown, err := macdCross(bar, prev)
	if err != nil {
		return 0, 0, err
	}
	if crossUp {
		buy++
	}
	if crossDown {
		sell++
	}

	golden, death, err := smaCross(bar, prev)
	if err != nil {
		return 0, 0, err
	}
	if golden {
		buy++
	}
	if death {
		sell++
	}

	lower, upper, err := bandTouch(bar)
	if err != nil {
		return 0, 0, err
	}
	if lower {
		buy++
	}
	if upper {
		sell++
	}

	ratio, err := bar.Indicator(market.IndVolumeRatio)
	if err != nil {
		return 0, 0, err
	}
	if ratio > r.Params.VolumeRatio {
		// Volume confirms whichever side is already voting.
		if buy > 0 {
			buy++
		}
		if sell > 0 {
			sell++
		}
	}

	return buy, sell, nil
}
