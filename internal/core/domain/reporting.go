package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportGroupBy selects the dimension of a time report bucket.
type ReportGroupBy string

const (
	GroupByClient  ReportGroupBy = "client"
	GroupByProject ReportGroupBy = "project"
	GroupByTask    ReportGroupBy = "task"
	GroupByUser    ReportGroupBy = "user"
)

// ReportEntry is a timesheet entry flattened together with its owner and labels.
type ReportEntry struct {
	TimesheetID string
	UserID      string
	UserName    string
	Status      TimesheetStatus
	Date        time.Time
	ClientID    string
	ClientName  string
	ProjectID   string
	ProjectName string
	TaskID      string
	TaskName    string
	Hours       decimal.Decimal
	IsBillable  bool
}

// ReportBucket is the hour sum of one group in a time report.
type ReportBucket struct {
	Key              string          `json:"key"`
	Label            string          `json:"label"`
	TotalHours       decimal.Decimal `json:"totalHours"`
	BillableHours    decimal.Decimal `json:"billableHours"`
	NonBillableHours decimal.Decimal `json:"nonBillableHours"`
	EntryCount       int             `json:"entryCount"`
}

// TimeReport aggregates entries of a date range by client, project, task and user.
type TimeReport struct {
	StartDate        time.Time       `json:"startDate"`
	EndDate          time.Time       `json:"endDate"`
	TotalHours       decimal.Decimal `json:"totalHours"`
	BillableHours    decimal.Decimal `json:"billableHours"`
	NonBillableHours decimal.Decimal `json:"nonBillableHours"`
	ByClient         []ReportBucket  `json:"byClient"`
	ByProject        []ReportBucket  `json:"byProject"`
	ByTask           []ReportBucket  `json:"byTask"`
	ByUser           []ReportBucket  `json:"byUser"`
}
