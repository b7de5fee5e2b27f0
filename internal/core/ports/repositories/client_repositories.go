package repositories

import (
	"context"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
)

// ClientRepositoryFacade defines persistence operations for clients.
type ClientRepositoryFacade interface {
	SaveClient(ctx context.Context, client domain.Client) error
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, limit int, offset int) ([]domain.Client, error)
}
