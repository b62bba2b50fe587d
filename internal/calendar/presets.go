package calendar

import "time"

// Equity builds a US-style equity session: regular 09:30-16:00 Mon-Fri with
// 04:00-20:00 extended hours.
func Equity(loc *time.Location, holidays []string) *Hours {
	regular := []Session{{Start: 9*time.Hour + 30*time.Minute, End: 16 * time.Hour}}
	extended := []Session{{Start: 4 * time.Hour, End: 20 * time.Hour}}
	days := make(map[time.Weekday]DaySchedule, 5)
	for wd := time.Monday; wd <= time.Friday; wd++ {
		days[wd] = DaySchedule{Regular: regular, Extended: extended}
	}
	return NewHours("equity", loc, days, holidays)
}

// Futures24 builds a near-24-hour futures session: closed Saturdays, reopens
// Sunday 18:00, and pauses for a daily 17:00-18:00 maintenance break.
func Futures24(loc *time.Location, holidays []string) *Hours {
	full := []Session{{Start: 0, End: 24 * time.Hour}}
	days := map[time.Weekday]DaySchedule{
		time.Sunday:    {Regular: []Session{{Start: 18 * time.Hour, End: 24 * time.Hour}}},
		time.Monday:    {Regular: full},
		time.Tuesday:   {Regular: full},
		time.Wednesday: {Regular: full},
		time.Thursday:  {Regular: full},
		time.Friday:    {Regular: []Session{{Start: 0, End: 17 * time.Hour}}},
	}
	h := NewHours("futures", loc, days, holidays)
	h.MaintenanceBreak = &Session{Start: 17 * time.Hour, End: 18 * time.Hour}
	h.WeekOpen = &WeekOpen{Day: time.Sunday, Offset: 18 * time.Hour}
	return h
}
