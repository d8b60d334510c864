package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratsim/market"
)

// neutralBar builds a bar whose indicators trigger no condition. Tests
// override individual values to flip exactly the conditions under test.
func neutralBar(overrides map[string]float64) market.Bar {
	ind := map[string]float64{
		market.IndRSI:         50,
		market.IndMACD:        0,
		market.IndMACDSignal:  0,
		market.IndSMAShort:    100,
		market.IndSMALong:     100,
		market.IndBBUpper:     110,
		market.IndBBMiddle:    100,
		market.IndBBLower:     90,
		market.IndVolumeRatio: 1.0,
	}
	for k, v := range overrides {
		ind[k] = v
	}
	return market.Bar{
		Time:       time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		Open:       100,
		High:       101,
		Low:        99,
		Close:      100,
		Volume:     1000,
		Indicators: ind,
	}
}

func TestVotingRuleTieHolds(t *testing.T) {
	t.Parallel()

	r := &VotingRule{Params: DefaultParams()}

	// Two buy votes (RSI oversold, lower-band touch) against two sell
	// votes (MACD cross down, SMA death cross). Both sides reach the
	// minimum and neither wins.
	prev := neutralBar(map[string]float64{
		market.IndMACD:     1,
		market.IndSMAShort: 101,
	})
	bar := neutralBar(map[string]float64{
		market.IndRSI:      25,
		market.IndBBLower:  100,
		market.IndMACD:     -1,
		market.IndSMAShort: 99,
	})

	d, err := r.Evaluate(bar, &prev)
	require.NoError(t, err)
	assert.Equal(t, Hold, d)
}

func TestVotingRuleVolumeBonusKeepsTie(t *testing.T) {
	t.Parallel()

	r := &VotingRule{Params: DefaultParams()}

	// Same 2v2 standoff with a volume spike: the bonus vote goes to both
	// sides and the tie survives.
	prev := neutralBar(map[string]float64{
		market.IndMACD:     1,
		market.IndSMAShort: 101,
	})
	bar := neutralBar(map[string]float64{
		market.IndRSI:         25,
		market.IndBBLower:     100,
		market.IndMACD:        -1,
		market.IndSMAShort:    99,
		market.IndVolumeRatio: 1.5,
	})

	d, err := r.Evaluate(bar, &prev)
	require.NoError(t, err)
	assert.Equal(t, Hold, d)
}

func TestVotingRuleMajorityWins(t *testing.T) {
	t.Parallel()

	r := &VotingRule{Params: DefaultParams()}

	// Three buy votes (RSI, MACD cross up, lower band) against a lone
	// death cross: only the buy side reaches the minimum.
	prev := neutralBar(map[string]float64{
		market.IndMACD:     -1,
		market.IndSMAShort: 101,
	})
	bar := neutralBar(map[string]float64{
		market.IndRSI:      25,
		market.IndMACD:     1,
		market.IndBBLower:  100,
		market.IndSMAShort: 99,
	})

	d, err := r.Evaluate(bar, &prev)
	require.NoError(t, err)
	assert.Equal(t, Buy, d)
}

func TestVotingRuleSingleSide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bar  market.Bar
		want Decision
	}{
		{
			name: "two buy votes",
			bar: neutralBar(map[string]float64{
				market.IndRSI:     25,
				market.IndBBLower: 100,
			}),
			want: Buy,
		},
		{
			name: "two sell votes",
			bar: neutralBar(map[string]float64{
				market.IndRSI:     75,
				market.IndBBUpper: 99,
			}),
			want: Sell,
		},
		{
			name: "one vote is not enough",
			bar: neutralBar(map[string]float64{
				market.IndRSI: 25,
			}),
			want: Hold,
		},
		{
			name: "no votes",
			bar:  neutralBar(nil),
			want: Hold,
		},
	}

	r := &VotingRule{Params: DefaultParams()}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, err := r.Evaluate(tt.bar, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestVotingRuleVolumeBonusBreaksThreshold(t *testing.T) {
	t.Parallel()

	r := &VotingRule{Params: DefaultParams()}

	// One base buy vote plus the volume bonus reaches the minimum of two.
	bar := neutralBar(map[string]float64{
		market.IndRSI:         25,
		market.IndVolumeRatio: 1.5,
	})

	d, err := r.Evaluate(bar, nil)
	require.NoError(t, err)
	assert.Equal(t, Buy, d)
}

func TestThresholdRule(t *testing.T) {
	t.Parallel()

	r := &ThresholdRule{Params: DefaultParams()}

	t.Run("buy needs oversold and macd cross up", func(t *testing.T) {
		t.Parallel()
		prev := neutralBar(map[string]float64{market.IndMACD: -1})
		bar := neutralBar(map[string]float64{
			market.IndRSI:  25,
			market.IndMACD: 1,
		})
		d, err := r.Evaluate(bar, &prev)
		require.NoError(t, err)
		assert.Equal(t, Buy, d)
	})

	t.Run("oversold alone holds", func(t *testing.T) {
		t.Parallel()
		bar := neutralBar(map[string]float64{market.IndRSI: 25})
		d, err := r.Evaluate(bar, nil)
		require.NoError(t, err)
		assert.Equal(t, Hold, d)
	})

	t.Run("overbought sells without a previous bar", func(t *testing.T) {
		t.Parallel()
		bar := neutralBar(map[string]float64{market.IndRSI: 75})
		d, err := r.Evaluate(bar, nil)
		require.NoError(t, err)
		assert.Equal(t, Sell, d)
	})

	t.Run("macd cross down sells", func(t *testing.T) {
		t.Parallel()
		prev := neutralBar(map[string]float64{market.IndMACD: 1})
		bar := neutralBar(map[string]float64{market.IndMACD: -1})
		d, err := r.Evaluate(bar, &prev)
		require.NoError(t, err)
		assert.Equal(t, Sell, d)
	})
}

func TestCrossoverRule(t *testing.T) {
	t.Parallel()

	r := &CrossoverRule{}

	t.Run("no previous bar holds", func(t *testing.T) {
		t.Parallel()
		d, err := r.Evaluate(neutralBar(map[string]float64{market.IndSMAShort: 105}), nil)
		require.NoError(t, err)
		assert.Equal(t, Hold, d)
	})

	t.Run("golden cross buys", func(t *testing.T) {
		t.Parallel()
		prev := neutralBar(map[string]float64{market.IndSMAShort: 99})
		bar := neutralBar(map[string]float64{market.IndSMAShort: 101})
		d, err := r.Evaluate(bar, &prev)
		require.NoError(t, err)
		assert.Equal(t, Buy, d)
	})

	t.Run("death cross sells", func(t *testing.T) {
		t.Parallel()
		prev := neutralBar(map[string]float64{market.IndSMAShort: 101})
		bar := neutralBar(map[string]float64{market.IndSMAShort: 99})
		d, err := r.Evaluate(bar, &prev)
		require.NoError(t, err)
		assert.Equal(t, Sell, d)
	})

	t.Run("already above holds", func(t *testing.T) {
		t.Parallel()
		prev := neutralBar(map[string]float64{market.IndSMAShort: 101})
		bar := neutralBar(map[string]float64{market.IndSMAShort: 102})
		d, err := r.Evaluate(bar, &prev)
		require.NoError(t, err)
		assert.Equal(t, Hold, d)
	})
}

func TestBandRule(t *testing.T) {
	t.Parallel()

	r := &BandRule{Params: DefaultParams()}

	tests := []struct {
		name string
		bar  market.Bar
		want Decision
	}{
		{
			name: "lower touch with oversold buys",
			bar: neutralBar(map[string]float64{
				market.IndRSI:     25,
				market.IndBBLower: 100,
			}),
			want: Buy,
		},
		{
			name: "lower touch without oversold holds",
			bar: neutralBar(map[string]float64{
				market.IndBBLower: 100,
			}),
			want: Hold,
		},
		{
			name: "upper touch with overbought sells",
			bar: neutralBar(map[string]float64{
				market.IndRSI:     75,
				market.IndBBUpper: 99,
			}),
			want: Sell,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, err := r.Evaluate(tt.bar, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d)
		})
	}
}

func TestEvaluateMissingIndicator(t *testing.T) {
	t.Parallel()

	bar := neutralBar(nil)
	delete(bar.Indicators, market.IndRSI)

	r := &VotingRule{Params: DefaultParams()}
	_, err := r.Evaluate(bar, nil)
	assert.Error(t, err)
}

func TestByName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"rsi_macd", "ma_crossover", "bollinger_rsi", "combined"} {
		r, err := ByName(name, DefaultParams())
		require.NoError(t, err)
		assert.Equal(t, name, r.Name())
	}

	r, err := ByName("", DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "combined", r.Name())

	_, err = ByName("momentum", DefaultParams())
	assert.Error(t, err)
}

func TestDecisionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "buy", Buy.String())
	assert.Equal(t, "sell", Sell.String())
	assert.Equal(t, "hold", Hold.String())
}
