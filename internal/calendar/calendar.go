// Package calendar models exchange trading hours as explicit data: a weekly
// session table, a holiday set and an optional daily maintenance break. Every
// query is a pure function of the configuration and the supplied timestamp.
package calendar

import (
	"time"
)

// Session is a window within one day, expressed as offsets from midnight.
// End may be 24h to reach the end of the day.
type Session struct {
	Start time.Duration
	End   time.Duration
}

func (s Session) contains(offset time.Duration) bool {
	return offset >= s.Start && offset < s.End
}

// DaySchedule lists the regular and extended-hours windows of one weekday.
// Extended windows include the regular ones.
type DaySchedule struct {
	Regular  []Session
	Extended []Session
}

// Hours is an immutable trading-hours configuration shared across the
// instruments of one exchange. Construct it once and pass it by reference.
type Hours struct {
	Name     string
	Loc      *time.Location
	Days     map[time.Weekday]DaySchedule
	Holidays map[string]struct{}

	// MaintenanceBreak, when set, closes the market daily inside its window
	// even on otherwise open days. Used by 24-hour futures sessions.
	MaintenanceBreak *Session

	// WeekOpen, when set, keeps the market shut on its weekday until the
	// given offset (the Sunday-evening reopen of futures markets).
	WeekOpen *WeekOpen
}

type WeekOpen struct {
	Day    time.Weekday
	Offset time.Duration
}

const dateLayout = "2006-01-02"

// NewHours builds an Hours config. holidays are dates in YYYY-MM-DD form,
// interpreted in loc.
func NewHours(name string, loc *time.Location, days map[time.Weekday]DaySchedule, holidays []string) *Hours {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[h] = struct{}{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Hours{Name: name, Loc: loc, Days: days, Holidays: set}
}

// AddHolidays extends the holiday set; used by config hot reload before the
// calendar is handed to instruments.
func (h *Hours) AddHolidays(dates []string) {
	for _, d := range dates {
		h.Holidays[d] = struct{}{}
	}
}

// IsHoliday reports whether t's date (in the exchange location) is excluded.
func (h *Hours) IsHoliday(t time.Time) bool {
	_, ok := h.Holidays[t.In(h.Loc).Format(dateLayout)]
	return ok
}

// IsOpen reports whether regular trading is available at t.
func (h *Hours) IsOpen(t time.Time) bool {
	return h.openAt(t, false)
}

// IsExtendedOpen reports whether trading, including extended hours, is
// available at t.
func (h *Hours) IsExtendedOpen(t time.Time) bool {
	return h.openAt(t, true)
}

func (h *Hours) openAt(t time.Time, extended bool) bool {
	local := t.In(h.Loc)
	if h.IsHoliday(local) {
		return false
	}
	offset := dayOffset(local)
	if h.WeekOpen != nil && local.Weekday() == h.WeekOpen.Day && offset < h.WeekOpen.Offset {
		return false
	}
	if h.MaintenanceBreak != nil && h.MaintenanceBreak.contains(offset) {
		return false
	}
	day, ok := h.Days[local.Weekday()]
	if !ok {
		return false
	}
	sessions := day.Regular
	if extended && len(day.Extended) > 0 {
		sessions = day.Extended
	}
	for _, s := range sessions {
		if s.contains(offset) {
			return true
		}
	}
	return false
}

// NextOpen returns the first instant strictly after t at which regular
// trading is available.
func (h *Hours) NextOpen(t time.Time) time.Time {
	local := t.In(h.Loc)
	for addDays := 0; addDays <= 370; addDays++ {
		day := midnight(local).AddDate(0, 0, addDays)
		if h.IsHoliday(day) {
			continue
		}
		sched, ok := h.Days[day.Weekday()]
		if !ok {
			continue
		}
		for _, s := range sched.Regular {
			start := s.Start
			if h.WeekOpen != nil && day.Weekday() == h.WeekOpen.Day && start < h.WeekOpen.Offset {
				start = h.WeekOpen.Offset
			}
			if h.MaintenanceBreak != nil && h.MaintenanceBreak.contains(start) {
				start = h.MaintenanceBreak.End
			}
			if open := day.Add(start); open.After(local) {
				return open
			}
			// A break inside the session adds a second open at its end.
			if h.MaintenanceBreak != nil && s.contains(h.MaintenanceBreak.End) && h.MaintenanceBreak.End > start {
				if open := day.Add(h.MaintenanceBreak.End); open.After(local) {
					return open
				}
			}
		}
	}
	return time.Time{}
}

// NextClose returns the first instant strictly after t at which regular
// trading stops, counting maintenance-break starts as closes.
func (h *Hours) NextClose(t time.Time) time.Time {
	local := t.In(h.Loc)
	for addDays := 0; addDays <= 370; addDays++ {
		day := midnight(local).AddDate(0, 0, addDays)
		if h.IsHoliday(day) {
			continue
		}
		sched, ok := h.Days[day.Weekday()]
		if !ok {
			continue
		}
		for _, s := range sched.Regular {
			end := s.End
			if h.MaintenanceBreak != nil && s.contains(h.MaintenanceBreak.Start) {
				if candidate := day.Add(h.MaintenanceBreak.Start); candidate.After(local) {
					return candidate
				}
			}
			if closeAt := day.Add(end); closeAt.After(local) {
				return closeAt
			}
		}
	}
	return time.Time{}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayOffset(t time.Time) time.Duration {
	return t.Sub(midnight(t))
}
