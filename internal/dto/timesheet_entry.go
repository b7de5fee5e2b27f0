package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry update actions that drive the timer instead of patching fields.
const (
	EntryActionStartTimer = "start_timer"
	EntryActionStopTimer  = "stop_timer"
)

// AddEntryRequest is the body of POST /timesheets/{id}/entries.
// When IsTimer is set, Hours and StartTime are ignored: the entry starts at zero
// hours with its start time taken from the server clock.
type AddEntryRequest struct {
	ProjectID string           `json:"projectId" binding:"required"`
	TaskID    *string          `json:"taskId"`
	Date      string           `json:"date" binding:"required"`
	Hours     *decimal.Decimal `json:"hours"`
	Notes     string           `json:"notes"`
	StartTime *time.Time       `json:"startTime"`
	IsTimer   bool             `json:"isTimer"`
}

// UpdateEntryRequest is the body of PATCH /timesheets/{id}/entries.
// With Action set the field patch is ignored.
type UpdateEntryRequest struct {
	EntryKey   string           `json:"entryKey" binding:"required"`
	Action     *string          `json:"action" binding:"omitempty,entryaction"`
	ProjectID  *string          `json:"projectId"`
	TaskID     *string          `json:"taskId"`
	Date       *string          `json:"date"`
	Hours      *decimal.Decimal `json:"hours"`
	Notes      *string          `json:"notes"`
	IsBillable *bool            `json:"isBillable"`
}

// IsEntryAction reports whether action names a timer action.
func IsEntryAction(action string) bool {
	return action == EntryActionStartTimer || action == EntryActionStopTimer
}
