package timeaccounting

import (
	"testing"
	"time"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekBucket(t *testing.T) {
	tests := []struct {
		name       string
		date       time.Time
		wantStart  string
		wantEnd    string
		wantYear   int
		wantNumber int
	}{
		{"monday", time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC), "2025-01-06", "2025-01-12", 2025, 2},
		{"sunday", time.Date(2025, 1, 12, 23, 0, 0, 0, time.UTC), "2025-01-06", "2025-01-12", 2025, 2},
		{"mid week", time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), "2025-01-06", "2025-01-12", 2025, 2},
		{"iso year differs from calendar year", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "2024-12-30", "2025-01-05", 2025, 1},
		{"week 53", time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC), "2020-12-28", "2021-01-03", 2020, 53},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WeekBucket(tt.date)
			assert.Equal(t, tt.wantStart, w.Start.Format(time.DateOnly))
			assert.Equal(t, tt.wantEnd, w.End.Format(time.DateOnly))
			assert.Equal(t, time.Monday, w.Start.Weekday())
			assert.Equal(t, time.Sunday, w.End.Weekday())
			assert.Equal(t, tt.wantYear, w.Year)
			assert.Equal(t, tt.wantNumber, w.Number)
		})
	}
}

func TestTimesheetID(t *testing.T) {
	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	friday := time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC)

	assert.Equal(t, "user-1-2025-W02", TimesheetID("user-1", monday))
	assert.Equal(t, TimesheetID("user-1", monday), TimesheetID("user-1", friday), "same week must yield same id")
	assert.NotEqual(t, TimesheetID("user-1", monday), TimesheetID("user-2", monday))
	assert.Equal(t, "u-2025-W01", TimesheetID("u", time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)))
}

func TestParseWeekStart(t *testing.T) {
	start, err := ParseWeekStart("2025-01-09")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-06", start.Format(time.DateOnly))

	_, err = ParseWeekStart("09/01/2025")
	assert.Error(t, err)
}

func TestComputeTotals(t *testing.T) {
	entries := []domain.TimesheetEntry{
		{EntryKey: "a", Hours: decimal.RequireFromString("2.5"), IsBillable: true},
		{EntryKey: "b", Hours: decimal.RequireFromString("1.25"), IsBillable: false},
		{EntryKey: "c", Hours: decimal.RequireFromString("3"), IsBillable: true, IsRunning: true},
	}

	totals := ComputeTotals(entries)

	assert.True(t, decimal.RequireFromString("6.75").Equal(totals.TotalHours))
	assert.True(t, decimal.RequireFromString("5.5").Equal(totals.BillableHours))
	assert.True(t, decimal.RequireFromString("1.25").Equal(totals.NonBillableHours))
	assert.True(t, totals.BillableHours.Add(totals.NonBillableHours).Equal(totals.TotalHours))
	assert.True(t, totals.HasRunningTimer)
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := ComputeTotals(nil)

	assert.True(t, totals.TotalHours.IsZero())
	assert.True(t, totals.BillableHours.IsZero())
	assert.True(t, totals.NonBillableHours.IsZero())
	assert.False(t, totals.HasRunningTimer)
}

func TestNormalizeHours(t *testing.T) {
	h, err := NormalizeHours(decimal.RequireFromString("1.236"))
	require.NoError(t, err)
	assert.Equal(t, "1.24", h.StringFixed(2))

	h, err = NormalizeHours(decimal.Zero)
	require.NoError(t, err)
	assert.True(t, h.IsZero())

	_, err = NormalizeHours(decimal.NewFromInt(-1))
	assert.Error(t, err)
}
