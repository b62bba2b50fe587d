package config

import (
	"fmt"
	"strings"
	"time"
)

func validate(c *Config) error {
	if c.Account.StartingCash < 0 {
		return fmt.Errorf("account.starting_cash cannot be negative")
	}
	calendars := make(map[string]bool, len(c.Calendars))
	for i, cal := range c.Calendars {
		name := strings.TrimSpace(cal.Name)
		if name == "" {
			return fmt.Errorf("calendars[%d]: name is required", i)
		}
		if calendars[name] {
			return fmt.Errorf("calendars[%d]: duplicate name %q", i, name)
		}
		calendars[name] = true
		switch strings.ToLower(cal.Preset) {
		case "equity", "futures24":
		default:
			return fmt.Errorf("calendars[%d]: unknown preset %q", i, cal.Preset)
		}
		if cal.Timezone != "" {
			if _, err := time.LoadLocation(cal.Timezone); err != nil {
				return fmt.Errorf("calendars[%d]: bad timezone %q: %w", i, cal.Timezone, err)
			}
		}
		for _, h := range cal.Holidays {
			if _, err := time.Parse("2006-01-02", h); err != nil {
				return fmt.Errorf("calendars[%d]: bad holiday date %q", i, h)
			}
		}
	}
	symbols := make(map[string]bool, len(c.Instruments))
	for i, inst := range c.Instruments {
		sym := strings.ToUpper(strings.TrimSpace(inst.Symbol))
		if sym == "" {
			return fmt.Errorf("instruments[%d]: symbol is required", i)
		}
		if symbols[sym] {
			return fmt.Errorf("instruments[%d]: duplicate symbol %q", i, sym)
		}
		symbols[sym] = true
		switch strings.ToLower(inst.Class) {
		case "equity", "stock", "future", "futures":
		default:
			return fmt.Errorf("instruments[%d]: unknown class %q", i, inst.Class)
		}
		if inst.Calendar != "" && !calendars[inst.Calendar] {
			return fmt.Errorf("instruments[%d]: unknown calendar %q", i, inst.Calendar)
		}
		if inst.InitialPerUnit < 0 || inst.MaintenancePerUnit < 0 {
			return fmt.Errorf("instruments[%d]: margin requirements cannot be negative", i)
		}
		if inst.MaintenancePerUnit > inst.InitialPerUnit {
			return fmt.Errorf("instruments[%d]: maintenance requirement exceeds initial", i)
		}
	}
	for i, ct := range c.Contracts {
		sym := strings.ToUpper(strings.TrimSpace(ct.Symbol))
		if sym == "" {
			return fmt.Errorf("contracts[%d]: symbol is required", i)
		}
		if !symbols[sym] {
			return fmt.Errorf("contracts[%d]: symbol %q is not an instrument", i, ct.Symbol)
		}
	}
	return nil
}
