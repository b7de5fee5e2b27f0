package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project represents a row of the projects table, rollup columns included.
type Project struct {
	ProjectID           string          `db:"project_id"`
	ClientID            string          `db:"client_id"`
	Name                string          `db:"name"`
	Code                string          `db:"code"`
	Status              string          `db:"status"`
	BudgetHours         decimal.Decimal `db:"budget_hours"`
	TotalHours          decimal.Decimal `db:"total_hours"`
	BillableHours       decimal.Decimal `db:"billable_hours"`
	ApprovedHours       decimal.Decimal `db:"approved_hours"`
	HoursRecalculatedAt *time.Time      `db:"hours_recalculated_at"`
	AuditFields
}

// Task represents a row of the tasks table.
type Task struct {
	TaskID     string `db:"task_id"`
	ProjectID  string `db:"project_id"`
	Name       string `db:"name"`
	IsBillable bool   `db:"is_billable"`
	IsActive   bool   `db:"is_active"`
	AuditFields
}
