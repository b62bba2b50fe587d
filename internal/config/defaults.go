package config

// applyDefaults fills in values for keys the config files never set. A key
// that appears in keys keeps whatever value it carries, including zero.
func (c *Config) applyDefaults(keys keySet) {
	if c.App.LogLevel == "" && !keys.isSet("app.log_level") {
		c.App.LogLevel = "info"
	}
	if c.Account.Currency == "" && !keys.isSet("account.currency") {
		c.Account.Currency = "USD"
	}
	if c.Account.StartingCash == 0 && !keys.isSet("account.starting_cash") {
		c.Account.StartingCash = 100000
	}
	if c.Fees.Equity.RateBps == 0 && !keys.isSet("fees.equity.rate_bps") {
		c.Fees.Equity.RateBps = 0.5
	}
	if c.Fees.Equity.Minimum == 0 && !keys.isSet("fees.equity.minimum") {
		c.Fees.Equity.Minimum = 1
	}
	if c.Fees.Future.BrokeragePerContract == 0 && !keys.isSet("fees.future.brokerage_per_contract") {
		c.Fees.Future.BrokeragePerContract = 0.85
	}
	if c.Fees.Future.ExchangePerContract == 0 && !keys.isSet("fees.future.exchange_per_contract") {
		c.Fees.Future.ExchangePerContract = 1.29
	}
	if c.HTTP.Addr == "" && !keys.isSet("http.addr") {
		c.HTTP.Addr = ":9991"
	}
	if c.Store.Path == "" && !keys.isSet("store.path") {
		c.Store.Path = "data/simbroker.db"
	}
	// Instruments and contracts arrive as list elements, which the flattened
	// key paths cannot address individually. A zero multiplier, leverage or
	// EOD offset is never a meaningful configuration, so these stay
	// value-based.
	for i := range c.Instruments {
		inst := &c.Instruments[i]
		if inst.Multiplier == 0 {
			inst.Multiplier = 1
		}
		if inst.Leverage == 0 {
			inst.Leverage = 1
		}
	}
	for i := range c.Contracts {
		if c.Contracts[i].EODOffsetHours == 0 {
			c.Contracts[i].EODOffsetHours = 17
		}
	}
}
