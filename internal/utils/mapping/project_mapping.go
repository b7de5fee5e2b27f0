package mapping

import (
	"github.com/SscSPs/timesheet_app/internal/core/domain"
	"github.com/SscSPs/timesheet_app/internal/models"
)

// ToModelProject converts a domain Project to a model Project
func ToModelProject(d domain.Project) models.Project {
	return models.Project{
		ProjectID:           d.ProjectID,
		ClientID:            d.ClientID,
		Name:                d.Name,
		Code:                d.Code,
		Status:              string(d.Status),
		BudgetHours:         d.BudgetHours,
		TotalHours:          d.Hours.TotalHours,
		BillableHours:       d.Hours.BillableHours,
		ApprovedHours:       d.Hours.ApprovedHours,
		HoursRecalculatedAt: d.Hours.RecalculatedAt,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProject converts a model Project to a domain Project
func ToDomainProject(m models.Project) domain.Project {
	return domain.Project{
		ProjectID:   m.ProjectID,
		ClientID:    m.ClientID,
		Name:        m.Name,
		Code:        m.Code,
		Status:      domain.ProjectStatus(m.Status),
		BudgetHours: m.BudgetHours,
		Hours: domain.ProjectHours{
			TotalHours:     m.TotalHours,
			BillableHours:  m.BillableHours,
			ApprovedHours:  m.ApprovedHours,
			RecalculatedAt: m.HoursRecalculatedAt,
		},
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelTask(d domain.Task) models.Task {
	return models.Task{
		TaskID:      d.TaskID,
		ProjectID:   d.ProjectID,
		Name:        d.Name,
		IsBillable:  d.IsBillable,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainTask(m models.Task) domain.Task {
	return domain.Task{
		TaskID:      m.TaskID,
		ProjectID:   m.ProjectID,
		Name:        m.Name,
		IsBillable:  m.IsBillable,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
