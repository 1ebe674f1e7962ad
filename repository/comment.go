package repository

import (
	"context"

	"github.com/fastygo/tracker/domain"
)

type CommentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	List(ctx context.Context) ([]domain.Comment, error)
	ListByIssue(ctx context.Context, issueID string) ([]domain.Comment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Comment, error)
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	Archive(ctx context.Context, id string, by domain.UserRef) error
	// UpVote toggles the user's vote, re-reading and retrying when another vote lands first.
	UpVote(ctx context.Context, commentID, userID string) (*domain.Comment, error)
}
