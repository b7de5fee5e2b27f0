package timeaccounting

import (
	"fmt"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// HoursPrecision is the number of decimal places hours are stored with.
const HoursPrecision = 2

// ComputeTotals derives the timesheet totals from its entries.
// nonBillable is always total - billable.
func ComputeTotals(entries []domain.TimesheetEntry) domain.Totals {
	total := decimal.Zero
	billable := decimal.Zero
	running := false

	for _, e := range entries {
		total = total.Add(e.Hours)
		if e.IsBillable {
			billable = billable.Add(e.Hours)
		}
		if e.IsRunning {
			running = true
		}
	}

	return domain.Totals{
		TotalHours:       total,
		BillableHours:    billable,
		NonBillableHours: total.Sub(billable),
		HasRunningTimer:  running,
	}
}

// NormalizeHours rounds h to HoursPrecision places. Negative values are rejected.
func NormalizeHours(h decimal.Decimal) (decimal.Decimal, error) {
	if h.IsNegative() {
		return decimal.Zero, fmt.Errorf("hours cannot be negative: %s", h.String())
	}
	return h.Round(HoursPrecision), nil
}
