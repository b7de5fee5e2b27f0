package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
	"github.com/SscSPs/timesheet_app/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimesheetMapping_EntryDatesSurviveRoundTrip(t *testing.T) {
	task := "t1"
	start := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)
	ts := domain.Timesheet{
		TimesheetID: "u1-2024-W03",
		UserID:      "u1",
		WeekStart:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		WeekEnd:     time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC),
		Status:      domain.StatusSubmitted,
		Entries: []domain.TimesheetEntry{{
			EntryKey:  "e1",
			Date:      time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
			ProjectID: "p1",
			TaskID:    &task,
			Hours:     decimal.RequireFromString("1.25"),
			IsRunning: true,
			StartTime: &start,
		}},
	}

	m := ToModelTimesheet(ts)
	require.Len(t, m.Entries, 1)
	assert.Equal(t, "2024-01-16", m.Entries[0].Date)
	assert.Equal(t, "submitted", m.Status)

	back, err := ToDomainTimesheet(m)
	require.NoError(t, err)
	assert.Equal(t, ts.Entries[0].Date, back.Entries[0].Date)
	assert.Equal(t, "1.25", back.Entries[0].Hours.String())
	assert.Equal(t, &task, back.Entries[0].TaskID)
	assert.True(t, back.Entries[0].IsRunning)
}

func TestToDomainTimesheet_RejectsBadEntryDate(t *testing.T) {
	_, err := ToDomainTimesheet(models.Timesheet{
		TimesheetID: "x",
		Entries:     []models.TimesheetEntry{{EntryKey: "e1", Date: "16/01/2024"}},
	})
	assert.Error(t, err)
}
