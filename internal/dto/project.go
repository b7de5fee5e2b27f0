package dto

import (
	"github.com/SscSPs/timesheet_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateClientRequest defines the data needed to create a client.
type CreateClientRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contactName"`
	Email       string `json:"email" binding:"omitempty,email"`
}

// CreateProjectRequest defines the data needed to create a project.
type CreateProjectRequest struct {
	ClientID    string           `json:"clientId" binding:"required"`
	Name        string           `json:"name" binding:"required"`
	Code        string           `json:"code" binding:"max=32"`
	BudgetHours *decimal.Decimal `json:"budgetHours"`
}

// CreateTaskRequest defines the data needed to add a task to a project.
type CreateTaskRequest struct {
	Name       string `json:"name" binding:"required"`
	IsBillable *bool  `json:"isBillable"` // defaults to true
}

// ListParams defines offset pagination query parameters.
type ListParams struct {
	Limit    int    `form:"limit,default=20" binding:"min=1,max=100"`
	Offset   int    `form:"offset,default=0" binding:"min=0"`
	ClientID string `form:"clientId"`
}

// ListClientsResponse wraps the list of clients.
type ListClientsResponse struct {
	Clients []domain.Client `json:"clients"`
}

// ListProjectsResponse wraps the list of projects.
type ListProjectsResponse struct {
	Projects []domain.Project `json:"projects"`
}

// ListTasksResponse wraps the tasks of a project.
type ListTasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}
