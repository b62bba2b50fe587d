package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const sampleOverrides = `
holidays:
  cme:
    - "2026-07-03"
margin_tiers:
  ES:
    initial_per_unit: 13000
    maintenance_per_unit: 11800
`

func TestNewWatcherParsesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(sampleOverrides), 0o644))

	w, err := NewWatcher(path)
	assert.NoError(t, err)

	current := w.Current()
	assert.Equal(t, []string{"2026-07-03"}, current.Holidays["cme"])
	assert.Equal(t, 13000.0, current.MarginTiers["ES"].InitialPerUnit)
	assert.Equal(t, 11800.0, current.MarginTiers["ES"].MaintenancePerUnit)
}

func TestNewWatcherMissingFileIsEmpty(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NoError(t, err)
	assert.Empty(t, w.Current().Holidays)
	assert.Empty(t, w.Current().MarginTiers)
}

func TestNewWatcherBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("holidays: [:::"), 0o644))

	_, err := NewWatcher(path)
	assert.Error(t, err)
}

func TestSubscribeDeliversCurrentState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(sampleOverrides), 0o644))

	w, err := NewWatcher(path)
	assert.NoError(t, err)

	var got Overrides
	w.Subscribe(func(o Overrides) { got = o })
	assert.Equal(t, 13000.0, got.MarginTiers["ES"].InitialPerUnit)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(sampleOverrides), 0o644))

	w, err := NewWatcher(path)
	assert.NoError(t, err)
	assert.NoError(t, w.Start())
	defer w.Stop()

	updates := make(chan Overrides, 4)
	w.Subscribe(func(o Overrides) { updates <- o })
	<-updates // initial delivery

	revised := `
margin_tiers:
  ES:
    initial_per_unit: 14000
    maintenance_per_unit: 12500
`
	assert.NoError(t, os.WriteFile(path, []byte(revised), 0o644))

	select {
	case got := <-updates:
		assert.Equal(t, 14000.0, got.MarginTiers["ES"].InitialPerUnit)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload delivered")
	}
}

func TestWatcherKeepsPreviousOnParseFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(sampleOverrides), 0o644))

	w, err := NewWatcher(path)
	assert.NoError(t, err)

	assert.NoError(t, os.WriteFile(path, []byte("margin_tiers: [broken"), 0o644))
	w.reload()

	assert.Equal(t, 13000.0, w.Current().MarginTiers["ES"].InitialPerUnit)
}
