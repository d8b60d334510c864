package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Default().Validate())
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero capital",
			mutate:  func(c *Config) { c.Account.InitialCapital = 0 },
			wantErr: "initial_capital",
		},
		{
			name:    "position size above one",
			mutate:  func(c *Config) { c.Account.PositionSizePct = 1.5 },
			wantErr: "position_size_pct",
		},
		{
			name:    "negative stop loss",
			mutate:  func(c *Config) { c.Account.StopLossPct = -0.01 },
			wantErr: "stop_loss_pct",
		},
		{
			name:    "zero max positions",
			mutate:  func(c *Config) { c.Account.MaxPositions = 0 },
			wantErr: "max_positions",
		},
		{
			name:    "unknown strategy",
			mutate:  func(c *Config) { c.Strategy.Name = "momentum" },
			wantErr: "unknown strategy",
		},
		{
			name:    "inverted rsi thresholds",
			mutate:  func(c *Config) { c.Strategy.RSIOversold = 80 },
			wantErr: "rsi thresholds",
		},
		{
			name:    "zero agreement",
			mutate:  func(c *Config) { c.Strategy.MinSignalAgreement = 0 },
			wantErr: "min_signal_agreement",
		},
		{
			name:    "short ma above long ma",
			mutate:  func(c *Config) { c.Indicators.MAShort = 60 },
			wantErr: "ma_short",
		},
		{
			name:    "zero indicator period",
			mutate:  func(c *Config) { c.Indicators.RSIPeriod = 0 },
			wantErr: "rsi_period",
		},
		{
			name:    "csv journal without paths",
			mutate:  func(c *Config) { c.Journal.Type = "csv" },
			wantErr: "trades_file",
		},
		{
			name:    "sqlite journal without path",
			mutate:  func(c *Config) { c.Journal.Type = "sqlite" },
			wantErr: "db_path",
		},
		{
			name:    "unknown journal type",
			mutate:  func(c *Config) { c.Journal.Type = "postgres" },
			wantErr: "journal.type",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
account:
  initial_capital: 50000
  stop_loss_pct: 0.02
strategy:
  name: ma_crossover
journal:
  type: sqlite
  db_path: journal.db
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Overridden values apply on top of the defaults.
	assert.InDelta(t, 50_000, cfg.Account.InitialCapital, 1e-9)
	assert.InDelta(t, 0.02, cfg.Account.StopLossPct, 1e-9)
	assert.Equal(t, "ma_crossover", cfg.Strategy.Name)
	assert.Equal(t, "sqlite", cfg.Journal.Type)

	// Untouched sections keep their defaults.
	assert.Equal(t, 3, cfg.Account.MaxPositions)
	assert.Equal(t, 14, cfg.Indicators.RSIPeriod)
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "account": {"initial_capital": 25000},
  "strategy": {"name": "combined"}
}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 25_000, cfg.Account.InitialCapital, 1e-9)
}

func TestLoadInvalidConfigFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account:\n  initial_capital: -1\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "invalid config")
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	for _, name := range []string{"config.yaml", "config.json"} {
		path := filepath.Join(dir, name)
		in := Default()
		in.Account.InitialCapital = 75_000

		require.NoError(t, in.Save(path))

		out, err := Load(path)
		require.NoError(t, err)
		assert.InDelta(t, 75_000, out.Account.InitialCapital, 1e-9)
	}
}

func TestMappers(t *testing.T) {
	t.Parallel()

	cfg := Default()

	limits := cfg.Limits()
	assert.InDelta(t, cfg.Account.InitialCapital, limits.InitialCapital, 1e-12)
	assert.Equal(t, cfg.Account.MaxPositions, limits.MaxPositions)

	params := cfg.Params()
	assert.InDelta(t, cfg.Strategy.RSIOversold, params.RSIOversold, 1e-12)
	assert.Equal(t, cfg.Strategy.MinSignalAgreement, params.MinAgreement)

	ind := cfg.IndicatorParams()
	assert.Equal(t, cfg.Indicators.MAShort, ind.SMAShort)
	assert.Equal(t, cfg.Indicators.MALong, ind.SMALong)
	assert.Equal(t, 20, ind.VolumePeriod)
}
