package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	brcfg "simbroker/internal/config"
	"simbroker/internal/types"

	"github.com/stretchr/testify/assert"
)

func minimalConfig(replayPath string) *brcfg.Config {
	return &brcfg.Config{
		App:     brcfg.AppConfig{LogLevel: "warn"},
		Account: brcfg.AccountConfig{Currency: "USD", StartingCash: 100000},
		Calendars: []brcfg.CalendarConfig{
			{Name: "cme", Preset: "futures24", Timezone: "America/Chicago"},
		},
		Instruments: []brcfg.InstrumentConfig{
			{Symbol: "ES", Class: "future", Multiplier: 50, TickSize: 0.25, Calendar: "cme", InitialPerUnit: 12650, MaintenancePerUnit: 11500},
		},
		Contracts: []brcfg.ContractConfig{
			{Symbol: "ES", Cycle: "quarterly_mar", EODOffsetHours: 17},
		},
		Replay: brcfg.ReplayConfig{Path: replayPath},
	}
}

func TestNewAppBuildsGraph(t *testing.T) {
	a, err := NewApp(minimalConfig(""))
	assert.NoError(t, err)
	assert.NotNil(t, a.Engine())
	assert.NotNil(t, a.Cache())
	assert.NotNil(t, a.Registry())

	spec, err := a.Registry().Resolve("ES", time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, "ESH26", spec.ContractSymbol)
}

func TestNewAppNilConfig(t *testing.T) {
	_, err := NewApp(nil)
	assert.Error(t, err)
}

func TestRunReplaysFeedThroughEngine(t *testing.T) {
	dir := t.TempDir()
	bars := filepath.Join(dir, "bars.jsonl")
	lines := `{"symbol":"ES","time":"2026-03-02T10:00:00Z","open":5000,"high":5005,"low":4995,"close":5000,"volume":100}
{"symbol":"ES","time":"2026-03-02T10:01:00Z","open":5000,"high":5010,"low":5000,"close":5010,"volume":120}
`
	assert.NoError(t, os.WriteFile(bars, []byte(lines), 0o644))

	a, err := NewApp(minimalConfig(bars))
	assert.NoError(t, err)

	o := types.NewOrder("ES", 1, types.OrderKindMarket, time.Date(2026, 3, 2, 9, 59, 0, 0, time.UTC))
	adm, err := a.Engine().SubmitOrder(context.Background(), o)
	assert.NoError(t, err)
	assert.True(t, adm.Approved)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	assert.NoError(t, a.Run(ctx))

	assert.Equal(t, types.OrderStatusFilled, o.Status)
	holdings := a.Engine().Holdings()
	assert.Len(t, holdings, 1)
	assert.Equal(t, 1.0, holdings[0].Quantity)
	assert.Equal(t, 5000.0, holdings[0].AveragePrice, "filled on the first bar")

	acct := a.Engine().Account()
	// Marked at the second bar's close: +500 unrealized on one contract.
	assert.InDelta(t, 100000+500-2.14, acct.NetLiquidation, 1e-9)
}

func TestBuilderAppliesOverridesAtBuild(t *testing.T) {
	dir := t.TempDir()
	overrides := filepath.Join(dir, "overrides.yaml")
	content := `
margin_tiers:
  es:
    initial_per_unit: 99000
    maintenance_per_unit: 90000
`
	assert.NoError(t, os.WriteFile(overrides, []byte(content), 0o644))

	cfg := minimalConfig("")
	cfg.Overrides = brcfg.OverridesConfig{Path: overrides}
	a, err := NewApp(cfg)
	assert.NoError(t, err)

	o := types.NewOrder("ES", 2, types.OrderKindMarket, time.Now())
	adm, err := a.Engine().SubmitOrder(context.Background(), o)
	assert.NoError(t, err)
	assert.False(t, adm.Approved, "the overridden tier no longer admits two contracts")
}

func TestBuilderRejectsBadAssetClass(t *testing.T) {
	cfg := minimalConfig("")
	cfg.Instruments[0].Class = "bond"
	_, err := NewApp(cfg)
	assert.Error(t, err)
}
