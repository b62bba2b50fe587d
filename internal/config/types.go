// Package config loads and validates the simulator configuration.
package config

type Config struct {
	App         AppConfig          `mapstructure:"app"`
	Account     AccountConfig      `mapstructure:"account"`
	Calendars   []CalendarConfig   `mapstructure:"calendars"`
	Instruments []InstrumentConfig `mapstructure:"instruments"`
	Contracts   []ContractConfig   `mapstructure:"contracts"`
	Fees        FeesConfig         `mapstructure:"fees"`
	Replay      ReplayConfig       `mapstructure:"replay"`
	Store       StoreConfig        `mapstructure:"store"`
	HTTP        HTTPConfig         `mapstructure:"http"`
	Overrides   OverridesConfig    `mapstructure:"overrides"`
}

type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
	LogPath  string `mapstructure:"log_path"`
}

type AccountConfig struct {
	Currency     string  `mapstructure:"currency"`
	StartingCash float64 `mapstructure:"starting_cash"`
}

type CalendarConfig struct {
	Name     string   `mapstructure:"name"`
	Preset   string   `mapstructure:"preset"` // equity | futures24
	Timezone string   `mapstructure:"timezone"`
	Holidays []string `mapstructure:"holidays"`
}

type InstrumentConfig struct {
	Symbol             string  `mapstructure:"symbol"`
	Class              string  `mapstructure:"class"`
	Multiplier         float64 `mapstructure:"multiplier"`
	TickSize           float64 `mapstructure:"tick_size"`
	Calendar           string  `mapstructure:"calendar"`
	InitialPerUnit     float64 `mapstructure:"initial_per_unit"`
	MaintenancePerUnit float64 `mapstructure:"maintenance_per_unit"`
	Leverage           float64 `mapstructure:"leverage"`
}

type ContractConfig struct {
	Symbol         string `mapstructure:"symbol"`
	Cycle          string `mapstructure:"cycle"`
	EODOffsetHours int    `mapstructure:"eod_offset_hours"`
}

type FeesConfig struct {
	Equity EquityFeeConfig `mapstructure:"equity"`
	Future FutureFeeConfig `mapstructure:"future"`
}

type EquityFeeConfig struct {
	RateBps float64 `mapstructure:"rate_bps"`
	Minimum float64 `mapstructure:"minimum"`
}

type FutureFeeConfig struct {
	BrokeragePerContract float64 `mapstructure:"brokerage_per_contract"`
	ExchangePerContract  float64 `mapstructure:"exchange_per_contract"`
}

type ReplayConfig struct {
	Path string `mapstructure:"path"`
}

type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type HTTPConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type OverridesConfig struct {
	Path string `mapstructure:"path"`
}
