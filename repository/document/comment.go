package document

import (
	"context"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/internal/versioning"
	"github.com/fastygo/tracker/repository"
	"github.com/fastygo/tracker/repository/docstore"
)

type commentRepository struct {
	store[domain.Comment, *domain.Comment]
}

func NewCommentRepository(db docstore.Database, opts ...versioning.Option) repository.CommentRepository {
	return &commentRepository{
		store: newStore[domain.Comment, *domain.Comment](db, CommentsCollection, CommentSchema, domain.ErrCommentNotFound, opts),
	}
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	return r.getByID(ctx, id)
}

func (r *commentRepository) List(ctx context.Context) ([]domain.Comment, error) {
	return r.find(ctx, active())
}

func (r *commentRepository) ListByIssue(ctx context.Context, issueID string) ([]domain.Comment, error) {
	if issueID == "" {
		return nil, domain.Invalid("issue id is required")
	}
	return r.find(ctx, docstore.Eq("issue.id", issueID))
}

func (r *commentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Comment, error) {
	if userID == "" {
		return nil, domain.Invalid("user id is required")
	}
	return r.find(ctx, docstore.Eq("author.id", userID))
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	return r.insert(ctx, comment)
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	return r.update(ctx, comment)
}

func (r *commentRepository) Archive(ctx context.Context, id string, by domain.UserRef) error {
	if id == "" {
		return domain.Invalid("comment id is required")
	}
	return r.archive(ctx, docstore.ByID(id), by)
}

func (r *commentRepository) UpVote(ctx context.Context, commentID, userID string) (*domain.Comment, error) {
	if userID == "" {
		return nil, domain.Invalid("user id is required")
	}
	return versioning.Retry(ctx, versioning.DefaultAttempts,
		func(ctx context.Context) (*domain.Comment, error) {
			return r.getByID(ctx, commentID)
		},
		func(c *domain.Comment) error {
			c.ToggleVote(userID)
			return nil
		},
		r.update,
	)
}
