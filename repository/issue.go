package repository

import (
	"context"

	"github.com/fastygo/tracker/domain"
)

type IssueRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	// List returns every non-archived issue, newest first.
	List(ctx context.Context) ([]domain.Issue, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Issue, error)
	ListWaitingForApproval(ctx context.Context) ([]domain.Issue, error)
	ListApproved(ctx context.Context) ([]domain.Issue, error)
	Create(ctx context.Context, issue *domain.Issue) (*domain.Issue, error)
	Update(ctx context.Context, issue *domain.Issue) (*domain.Issue, error)
	Archive(ctx context.Context, id string, by domain.UserRef) error
}
