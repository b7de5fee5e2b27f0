package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var secondsPerHour = decimal.NewFromInt(3600)

// ElapsedHours returns the wall-clock hours between start and now rounded to two places.
// A clock that went backwards yields zero.
func ElapsedHours(start, now time.Time) decimal.Decimal {
	d := now.Sub(start)
	if d <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(d.Seconds()).Div(secondsPerHour).Round(2)
}

// stopEntry folds the elapsed time of a running entry into its hours.
// An entry without a start time keeps its hours.
func stopEntry(e *TimesheetEntry, now time.Time) {
	if e.StartTime != nil {
		e.Hours = e.Hours.Add(ElapsedHours(*e.StartTime, now))
	}
	end := now
	e.EndTime = &end
	e.IsRunning = false
	e.UpdatedAt = now
}

// StopRunningTimers stops every running entry except exceptKey. It returns the keys
// that were stopped.
func (t *Timesheet) StopRunningTimers(now time.Time, exceptKey string) []string {
	var stopped []string
	for i := range t.Entries {
		e := &t.Entries[i]
		if !e.IsRunning || e.EntryKey == exceptKey {
			continue
		}
		stopEntry(e, now)
		stopped = append(stopped, e.EntryKey)
	}
	return stopped
}

// StartTimer starts the timer of entryKey, stopping any other running entry first.
// Starting an already running entry is a no-op.
func (t *Timesheet) StartTimer(entryKey string, now time.Time) error {
	idx, ok := t.FindEntry(entryKey)
	if !ok {
		return fmt.Errorf("entry %s not found", entryKey)
	}
	t.StopRunningTimers(now, entryKey)

	e := &t.Entries[idx]
	if e.IsRunning {
		return nil
	}
	start := now
	e.StartTime = &start
	e.EndTime = nil
	e.IsRunning = true
	e.UpdatedAt = now
	return nil
}

// StopTimer stops the timer of entryKey. Stopping an idle entry still stamps its end time.
func (t *Timesheet) StopTimer(entryKey string, now time.Time) error {
	idx, ok := t.FindEntry(entryKey)
	if !ok {
		return fmt.Errorf("entry %s not found", entryKey)
	}
	e := &t.Entries[idx]
	if !e.IsRunning {
		end := now
		e.EndTime = &end
		e.UpdatedAt = now
		return nil
	}
	stopEntry(e, now)
	return nil
}
