package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus indicates whether time can still be logged against a project.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

// ProjectHours is the rollup of timesheet hours logged against a project.
// It is always recomputed from the timesheets, never adjusted incrementally.
type ProjectHours struct {
	TotalHours     decimal.Decimal `json:"totalHours"`
	BillableHours  decimal.Decimal `json:"billableHours"`
	ApprovedHours  decimal.Decimal `json:"approvedHours"`
	RecalculatedAt *time.Time      `json:"recalculatedAt,omitempty"`
}

// Project groups tasks and logged time for a client.
type Project struct {
	ProjectID   string          `json:"projectID"`
	ClientID    string          `json:"clientID"`
	Name        string          `json:"name"`
	Code        string          `json:"code"`
	Status      ProjectStatus   `json:"status"`
	BudgetHours decimal.Decimal `json:"budgetHours"`
	Hours       ProjectHours    `json:"hours"`
	AuditFields
}

// Task is a unit of work within a project. IsBillable seeds the billable
// flag of entries created against it.
type Task struct {
	TaskID     string `json:"taskID"`
	ProjectID  string `json:"projectID"`
	Name       string `json:"name"`
	IsBillable bool   `json:"isBillable"`
	IsActive   bool   `json:"isActive"`
	AuditFields
}
