// Package contract resolves a general futures symbol and a date to the
// concrete front contract: its symbol, roll date and expiration date.
package contract

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"simbroker/internal/types"
)

// rollLeadDays separates the roll date from the third-Friday anchor.
const rollLeadDays = 8

// Entry is one registered general symbol.
type Entry struct {
	Symbol string
	Cycle  Cycle

	// EODOffset is the end-of-trading-day time added to the roll date.
	EODOffset time.Duration
}

// Spec is the resolved, date-parameterized contract view. It is recomputed
// per query and never persisted.
type Spec struct {
	GeneralSymbol  string     `json:"general_symbol"`
	ContractSymbol string     `json:"contract_symbol"`
	Year           int        `json:"year"`
	LeadMonth      time.Month `json:"lead_month"`
	RollDate       time.Time  `json:"roll_date"`
	ExpirationDate time.Time  `json:"expiration_date"`
	Cycle          Cycle      `json:"cycle"`
}

// Registry maps general symbols to their cycle configuration. Holidays shift
// roll and expiration dates back one business day.
type Registry struct {
	entries map[string]Entry
	loc     *time.Location

	mu       sync.RWMutex
	holidays map[string]struct{}
}

func NewRegistry(loc *time.Location, holidays []string) *Registry {
	if loc == nil {
		loc = time.UTC
	}
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[h] = struct{}{}
	}
	return &Registry{
		entries:  make(map[string]Entry),
		loc:      loc,
		holidays: set,
	}
}

// Register adds or replaces a general symbol.
func (r *Registry) Register(e Entry) {
	e.Symbol = strings.ToUpper(strings.TrimSpace(e.Symbol))
	r.entries[e.Symbol] = e
}

// AddHolidays extends the holiday set (config hot reload).
func (r *Registry) AddHolidays(dates []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range dates {
		r.holidays[d] = struct{}{}
	}
}

func (r *Registry) isHoliday(t time.Time) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.holidays[t.Format("2006-01-02")]
	return ok
}

// Resolve computes the front contract for date. The lead month is the first
// cycle month whose roll date is still ahead of date; a date at or past the
// roll date advances to the next cycle month.
func (r *Registry) Resolve(generalSymbol string, date time.Time) (Spec, error) {
	key := strings.ToUpper(strings.TrimSpace(generalSymbol))
	entry, ok := r.entries[key]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %s", types.ErrUnknownSymbol, generalSymbol)
	}
	date = date.In(r.loc)

	year, month := entry.Cycle.monthAtOrAfter(date.Year(), date.Month())
	if !date.Before(r.rollDate(year, month, entry.EODOffset)) {
		year, month = entry.Cycle.nextMonth(year, month)
	}

	spec := Spec{
		GeneralSymbol:  key,
		Year:           year,
		LeadMonth:      month,
		RollDate:       r.rollDate(year, month, entry.EODOffset),
		ExpirationDate: r.expirationDate(year, month),
		Cycle:          entry.Cycle,
	}
	spec.ContractSymbol = fmt.Sprintf("%s%s%02d", key, MonthCode(month), year%100)
	return spec, nil
}

// thirdFriday walks from the first of the month to the first Friday, then
// adds two weeks.
func (r *Registry) thirdFriday(year int, month time.Month) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, r.loc)
	for d.Weekday() != time.Friday {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, 14)
}

// rollDate is the third Friday minus eight calendar days, shifted back one
// day when it lands on a holiday, at the configured end-of-trading-day time.
func (r *Registry) rollDate(year int, month time.Month, eod time.Duration) time.Time {
	d := r.thirdFriday(year, month).AddDate(0, 0, -rollLeadDays)
	if r.isHoliday(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d.Add(eod)
}

// expirationDate is the third Friday, shifted back one day on holidays.
func (r *Registry) expirationDate(year int, month time.Month) time.Time {
	d := r.thirdFriday(year, month)
	if r.isHoliday(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
