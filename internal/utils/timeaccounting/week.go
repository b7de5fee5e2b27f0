package timeaccounting

import (
	"fmt"
	"time"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
)

// Week is the ISO week a date belongs to. Start is the Monday and End the Sunday,
// both at midnight UTC.
type Week struct {
	Start  time.Time
	End    time.Time
	Year   int
	Number int
}

// WeekBucket returns the ISO week containing date.
func WeekBucket(date time.Time) Week {
	day := domain.DateOf(date)
	// time.Weekday has Sunday=0; shift so Monday=0
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	year, number := start.ISOWeek()
	return Week{
		Start:  start,
		End:    start.AddDate(0, 0, 6),
		Year:   year,
		Number: number,
	}
}

// TimesheetID derives the timesheet identity for a user and the week containing weekStart.
// The same (user, week) always yields the same id, which makes get-or-create idempotent.
func TimesheetID(userID string, weekStart time.Time) string {
	w := WeekBucket(weekStart)
	return fmt.Sprintf("%s-%d-W%02d", userID, w.Year, w.Number)
}

// ParseWeekStart parses a YYYY-MM-DD date and returns the Monday of its week.
func ParseWeekStart(raw string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", raw, err)
	}
	return WeekBucket(d).Start, nil
}
