package contract

import (
	"fmt"
	"strings"
	"time"
)

// Cycle enumerates the expiration cycles a general symbol can trade on:
// every month, or quarterly anchored to January, February or March.
type Cycle int

const (
	CycleMonthly Cycle = iota
	CycleQuarterlyJan
	CycleQuarterlyFeb
	CycleQuarterlyMar
)

func ParseCycle(s string) (Cycle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "":
		return CycleMonthly, nil
	case "quarterly_jan", "quarterly-jan":
		return CycleQuarterlyJan, nil
	case "quarterly_feb", "quarterly-feb":
		return CycleQuarterlyFeb, nil
	case "quarterly_mar", "quarterly-mar", "quarterly":
		return CycleQuarterlyMar, nil
	default:
		return CycleMonthly, fmt.Errorf("unknown expiration cycle %q", s)
	}
}

func (c Cycle) String() string {
	switch c {
	case CycleQuarterlyJan:
		return "quarterly_jan"
	case CycleQuarterlyFeb:
		return "quarterly_feb"
	case CycleQuarterlyMar:
		return "quarterly_mar"
	default:
		return "monthly"
	}
}

// Months returns the cycle's trading months in calendar order.
func (c Cycle) Months() []time.Month {
	switch c {
	case CycleQuarterlyJan:
		return []time.Month{time.January, time.April, time.July, time.October}
	case CycleQuarterlyFeb:
		return []time.Month{time.February, time.May, time.August, time.November}
	case CycleQuarterlyMar:
		return []time.Month{time.March, time.June, time.September, time.December}
	default:
		return []time.Month{
			time.January, time.February, time.March, time.April,
			time.May, time.June, time.July, time.August,
			time.September, time.October, time.November, time.December,
		}
	}
}

// nextMonth advances year/month to the cycle month strictly after m.
func (c Cycle) nextMonth(year int, m time.Month) (int, time.Month) {
	for _, cm := range c.Months() {
		if cm > m {
			return year, cm
		}
	}
	return year + 1, c.Months()[0]
}

// monthAtOrAfter returns the first cycle month >= m in year, rolling into the
// next year when m is past the cycle's last month.
func (c Cycle) monthAtOrAfter(year int, m time.Month) (int, time.Month) {
	for _, cm := range c.Months() {
		if cm >= m {
			return year, cm
		}
	}
	return year + 1, c.Months()[0]
}

// monthCodes is the standard futures month-code alphabet.
var monthCodes = map[time.Month]string{
	time.January: "F", time.February: "G", time.March: "H",
	time.April: "J", time.May: "K", time.June: "M",
	time.July: "N", time.August: "Q", time.September: "U",
	time.October: "V", time.November: "X", time.December: "Z",
}

// MonthCode returns the single-letter code for a delivery month.
func MonthCode(m time.Month) string {
	return monthCodes[m]
}
