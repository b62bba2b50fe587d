package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func nyLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)
	return loc
}

func chiLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	assert.NoError(t, err)
	return loc
}

func TestEquityRegularHours(t *testing.T) {
	loc := nyLoc(t)
	h := Equity(loc, nil)

	// Monday 2026-03-02.
	assert.True(t, h.IsOpen(time.Date(2026, 3, 2, 10, 0, 0, 0, loc)))
	assert.True(t, h.IsOpen(time.Date(2026, 3, 2, 9, 30, 0, 0, loc)))
	assert.False(t, h.IsOpen(time.Date(2026, 3, 2, 16, 0, 0, 0, loc)), "close boundary is exclusive")
	assert.False(t, h.IsOpen(time.Date(2026, 3, 2, 8, 0, 0, 0, loc)))
	assert.False(t, h.IsOpen(time.Date(2026, 3, 7, 12, 0, 0, 0, loc)), "saturday")
}

func TestEquityExtendedHours(t *testing.T) {
	loc := nyLoc(t)
	h := Equity(loc, nil)

	at := time.Date(2026, 3, 2, 8, 0, 0, 0, loc)
	assert.False(t, h.IsOpen(at))
	assert.True(t, h.IsExtendedOpen(at))
	assert.False(t, h.IsExtendedOpen(time.Date(2026, 3, 2, 21, 0, 0, 0, loc)))
}

func TestHolidayClosesAllQueries(t *testing.T) {
	loc := nyLoc(t)
	h := Equity(loc, []string{"2026-03-02"})

	at := time.Date(2026, 3, 2, 10, 0, 0, 0, loc)
	assert.True(t, h.IsHoliday(at))
	assert.False(t, h.IsOpen(at))
	assert.False(t, h.IsExtendedOpen(at))
}

func TestAddHolidays(t *testing.T) {
	loc := nyLoc(t)
	h := Equity(loc, nil)
	at := time.Date(2026, 3, 2, 10, 0, 0, 0, loc)
	assert.True(t, h.IsOpen(at))

	h.AddHolidays([]string{"2026-03-02"})
	assert.False(t, h.IsOpen(at))
}

func TestNextOpenSkipsWeekendAndHoliday(t *testing.T) {
	loc := nyLoc(t)
	h := Equity(loc, []string{"2026-03-09"})

	// Friday 2026-03-06 after the close; Monday 03-09 is a holiday, so the
	// next open is Tuesday 03-10 09:30.
	from := time.Date(2026, 3, 6, 17, 0, 0, 0, loc)
	want := time.Date(2026, 3, 10, 9, 30, 0, 0, loc)
	assert.Equal(t, want, h.NextOpen(from))
}

func TestNextCloseSameDay(t *testing.T) {
	loc := nyLoc(t)
	h := Equity(loc, nil)

	from := time.Date(2026, 3, 2, 10, 0, 0, 0, loc)
	want := time.Date(2026, 3, 2, 16, 0, 0, 0, loc)
	assert.Equal(t, want, h.NextClose(from))
}

func TestFutures24WeekOpen(t *testing.T) {
	loc := chiLoc(t)
	h := Futures24(loc, nil)

	// Sunday 2026-03-01: closed before 18:00, open after.
	assert.False(t, h.IsOpen(time.Date(2026, 3, 1, 17, 0, 0, 0, loc)))
	assert.True(t, h.IsOpen(time.Date(2026, 3, 1, 19, 0, 0, 0, loc)))
	assert.False(t, h.IsOpen(time.Date(2026, 2, 28, 12, 0, 0, 0, loc)), "saturday")
}

func TestFutures24MaintenanceBreak(t *testing.T) {
	loc := chiLoc(t)
	h := Futures24(loc, nil)

	// Tuesday 2026-03-03.
	assert.True(t, h.IsOpen(time.Date(2026, 3, 3, 16, 59, 0, 0, loc)))
	assert.False(t, h.IsOpen(time.Date(2026, 3, 3, 17, 30, 0, 0, loc)))
	assert.True(t, h.IsOpen(time.Date(2026, 3, 3, 18, 0, 0, 0, loc)))

	// The break counts as a close and its end as the following open.
	from := time.Date(2026, 3, 3, 10, 0, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 3, 3, 17, 0, 0, 0, loc), h.NextClose(from))

	inBreak := time.Date(2026, 3, 3, 17, 10, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 3, 3, 18, 0, 0, 0, loc), h.NextOpen(inBreak))
}

func TestFutures24FridayClose(t *testing.T) {
	loc := chiLoc(t)
	h := Futures24(loc, nil)

	// Friday 2026-03-06 ends at 17:00 and stays shut through Saturday.
	assert.True(t, h.IsOpen(time.Date(2026, 3, 6, 16, 0, 0, 0, loc)))
	assert.False(t, h.IsOpen(time.Date(2026, 3, 6, 17, 30, 0, 0, loc)))

	from := time.Date(2026, 3, 6, 18, 0, 0, 0, loc)
	want := time.Date(2026, 3, 8, 18, 0, 0, 0, loc)
	assert.Equal(t, want, h.NextOpen(from))
}
