package contract

import (
	"errors"
	"testing"
	"time"

	"simbroker/internal/types"

	"github.com/stretchr/testify/assert"
)

func TestThirdFridayIsAlwaysFriday(t *testing.T) {
	r := NewRegistry(time.UTC, nil)
	for year := 2024; year <= 2027; year++ {
		for m := time.January; m <= time.December; m++ {
			d := r.thirdFriday(year, m)
			assert.Equal(t, time.Friday, d.Weekday(), "%d-%02d", year, m)
			assert.True(t, d.Day() >= 15 && d.Day() <= 21, "%v", d)
		}
	}
}

func TestResolveQuarterlyMar(t *testing.T) {
	r := NewRegistry(time.UTC, nil)
	r.Register(Entry{Symbol: "ES", Cycle: CycleQuarterlyMar, EODOffset: 17 * time.Hour})

	// March 2026: third Friday is 03-20, roll is 03-12 17:00.
	spec, err := r.Resolve("ES", time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, "ESH26", spec.ContractSymbol)
	assert.Equal(t, time.March, spec.LeadMonth)
	assert.Equal(t, 2026, spec.Year)
	assert.Equal(t, time.Date(2026, 3, 12, 17, 0, 0, 0, time.UTC), spec.RollDate)
	assert.Equal(t, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), spec.ExpirationDate)
}

func TestResolveAdvancesAtRollDate(t *testing.T) {
	r := NewRegistry(time.UTC, nil)
	r.Register(Entry{Symbol: "ES", Cycle: CycleQuarterlyMar, EODOffset: 17 * time.Hour})

	roll := time.Date(2026, 3, 12, 17, 0, 0, 0, time.UTC)

	before, err := r.Resolve("ES", roll.Add(-time.Minute))
	assert.NoError(t, err)
	assert.Equal(t, "ESH26", before.ContractSymbol)

	at, err := r.Resolve("ES", roll)
	assert.NoError(t, err)
	assert.Equal(t, "ESM26", at.ContractSymbol, "a date at the roll belongs to the next contract")
	assert.Equal(t, time.June, at.LeadMonth)
}

func TestRollDateExpirationGap(t *testing.T) {
	r := NewRegistry(time.UTC, nil)
	r.Register(Entry{Symbol: "CL", Cycle: CycleMonthly})

	for _, month := range []time.Month{time.January, time.April, time.September} {
		spec, err := r.Resolve("CL", time.Date(2026, month, 1, 0, 0, 0, 0, time.UTC))
		assert.NoError(t, err)
		gap := spec.ExpirationDate.Sub(spec.RollDate)
		assert.Equal(t, 8*24*time.Hour, gap, "month %v", month)
	}
}

func TestRollDateHolidayShift(t *testing.T) {
	// 2026-03-12 is the unshifted ES roll; marking it a holiday moves the
	// roll back one day.
	r := NewRegistry(time.UTC, []string{"2026-03-12"})
	r.Register(Entry{Symbol: "ES", Cycle: CycleQuarterlyMar, EODOffset: 17 * time.Hour})

	spec, err := r.Resolve("ES", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 11, 17, 0, 0, 0, time.UTC), spec.RollDate)
}

func TestAddHolidaysShiftsFutureQueries(t *testing.T) {
	r := NewRegistry(time.UTC, nil)
	r.Register(Entry{Symbol: "ES", Cycle: CycleQuarterlyMar, EODOffset: 17 * time.Hour})

	r.AddHolidays([]string{"2026-03-12"})
	spec, err := r.Resolve("ES", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, 11, spec.RollDate.Day())
}

func TestResolveUnknownSymbol(t *testing.T) {
	r := NewRegistry(time.UTC, nil)
	_, err := r.Resolve("NQ", time.Now())
	assert.True(t, errors.Is(err, types.ErrUnknownSymbol))
}

func TestResolveNormalizesSymbol(t *testing.T) {
	r := NewRegistry(time.UTC, nil)
	r.Register(Entry{Symbol: " es ", Cycle: CycleQuarterlyMar})

	spec, err := r.Resolve("es", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, "ES", spec.GeneralSymbol)
}

func TestCycleMonths(t *testing.T) {
	assert.Len(t, CycleMonthly.Months(), 12)
	assert.Equal(t, []time.Month{time.March, time.June, time.September, time.December}, CycleQuarterlyMar.Months())
	assert.Equal(t, []time.Month{time.February, time.May, time.August, time.November}, CycleQuarterlyFeb.Months())
}

func TestCycleYearRollover(t *testing.T) {
	year, month := CycleQuarterlyMar.monthAtOrAfter(2026, time.December)
	assert.Equal(t, 2026, year)
	assert.Equal(t, time.December, month)

	year, month = CycleQuarterlyMar.nextMonth(2026, time.December)
	assert.Equal(t, 2027, year)
	assert.Equal(t, time.March, month)
}

func TestParseCycle(t *testing.T) {
	c, err := ParseCycle("quarterly_mar")
	assert.NoError(t, err)
	assert.Equal(t, CycleQuarterlyMar, c)

	c, err = ParseCycle("")
	assert.NoError(t, err)
	assert.Equal(t, CycleMonthly, c)

	_, err = ParseCycle("bimonthly")
	assert.Error(t, err)
}

func TestMonthCode(t *testing.T) {
	assert.Equal(t, "H", MonthCode(time.March))
	assert.Equal(t, "M", MonthCode(time.June))
	assert.Equal(t, "U", MonthCode(time.September))
	assert.Equal(t, "Z", MonthCode(time.December))
}
