package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const baseConfig = `
app:
  log_level: debug
account:
  currency: USD
  starting_cash: 50000
calendars:
  - name: cme
    preset: futures24
    timezone: America/Chicago
    holidays: ["2026-01-01"]
instruments:
  - symbol: ES
    class: future
    multiplier: 50
    tick_size: 0.25
    calendar: cme
    initial_per_unit: 12650
    maintenance_per_unit: 11500
contracts:
  - symbol: ES
    cycle: quarterly_mar
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", baseConfig)

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 50000.0, cfg.Account.StartingCash)
	assert.Len(t, cfg.Instruments, 1)
	assert.Equal(t, 50.0, cfg.Instruments[0].Multiplier)
	assert.Equal(t, "quarterly_mar", cfg.Contracts[0].Cycle)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", `
calendars:
  - name: us
    preset: equity
instruments:
  - symbol: SPY
    class: equity
    calendar: us
`)
	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "USD", cfg.Account.Currency)
	assert.Equal(t, 100000.0, cfg.Account.StartingCash)
	assert.Equal(t, ":9991", cfg.HTTP.Addr)
	assert.Equal(t, 1.0, cfg.Instruments[0].Multiplier)
	assert.Equal(t, 1.0, cfg.Instruments[0].Leverage)
	assert.Equal(t, 0.5, cfg.Fees.Equity.RateBps)
}

func TestLoadKeepsExplicitZeroValues(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", `
account:
  starting_cash: 0
fees:
  equity:
    rate_bps: 0
    minimum: 0
  future:
    brokerage_per_contract: 0
    exchange_per_contract: 0
calendars:
  - name: us
    preset: equity
instruments:
  - symbol: SPY
    class: equity
    calendar: us
`)
	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Account.StartingCash)
	assert.Equal(t, 0.0, cfg.Fees.Equity.RateBps)
	assert.Equal(t, 0.0, cfg.Fees.Equity.Minimum)
	assert.Equal(t, 0.0, cfg.Fees.Future.BrokeragePerContract)
	assert.Equal(t, 0.0, cfg.Fees.Future.ExchangePerContract)
}

func TestLoadMergesIncludes(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml", `
account:
  currency: EUR
  starting_cash: 1000
calendars:
  - name: us
    preset: equity
instruments:
  - symbol: SPY
    class: equity
    calendar: us
`)
	path := writeConfig(t, dir, "config.yaml", `
include:
  - base.yaml
account:
  starting_cash: 2000
`)
	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Account.Currency, "inherited from the include")
	assert.Equal(t, 2000.0, cfg.Account.StartingCash, "the including file wins")
}

func TestLoadDetectsIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "a.yaml", "include: [b.yaml]\n")
	path := writeConfig(t, dir, "b.yaml", "include: [a.yaml]\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "cycle")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "negative cash",
			mutate:  func(c *Config) { c.Account.StartingCash = -1 },
			wantErr: "starting_cash",
		},
		{
			name:    "unknown preset",
			mutate:  func(c *Config) { c.Calendars[0].Preset = "lunar" },
			wantErr: "preset",
		},
		{
			name:    "bad timezone",
			mutate:  func(c *Config) { c.Calendars[0].Timezone = "Mars/Olympus" },
			wantErr: "timezone",
		},
		{
			name:    "bad holiday date",
			mutate:  func(c *Config) { c.Calendars[0].Holidays = []string{"01/01/2026"} },
			wantErr: "holiday",
		},
		{
			name: "duplicate symbol",
			mutate: func(c *Config) {
				c.Instruments = append(c.Instruments, c.Instruments[0])
			},
			wantErr: "duplicate symbol",
		},
		{
			name:    "unknown class",
			mutate:  func(c *Config) { c.Instruments[0].Class = "bond" },
			wantErr: "class",
		},
		{
			name:    "unknown calendar reference",
			mutate:  func(c *Config) { c.Instruments[0].Calendar = "nowhere" },
			wantErr: "calendar",
		},
		{
			name:    "maintenance above initial",
			mutate:  func(c *Config) { c.Instruments[0].MaintenancePerUnit = 99999 },
			wantErr: "maintenance",
		},
		{
			name:    "contract without instrument",
			mutate:  func(c *Config) { c.Contracts[0].Symbol = "NQ" },
			wantErr: "not an instrument",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := validate(cfg)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func validConfig() *Config {
	return &Config{
		Account: AccountConfig{Currency: "USD", StartingCash: 1000},
		Calendars: []CalendarConfig{
			{Name: "cme", Preset: "futures24", Timezone: "America/Chicago", Holidays: []string{"2026-01-01"}},
		},
		Instruments: []InstrumentConfig{
			{Symbol: "ES", Class: "future", Multiplier: 50, Calendar: "cme", InitialPerUnit: 12650, MaintenancePerUnit: 11500},
		},
		Contracts: []ContractConfig{{Symbol: "ES", Cycle: "quarterly_mar"}},
	}
}
