package document

import (
	"context"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/internal/versioning"
	"github.com/fastygo/tracker/repository"
	"github.com/fastygo/tracker/repository/docstore"
)

type issueRepository struct {
	store[domain.Issue, *domain.Issue]
}

func NewIssueRepository(db docstore.Database, opts ...versioning.Option) repository.IssueRepository {
	return &issueRepository{
		store: newStore[domain.Issue, *domain.Issue](db, IssuesCollection, IssueSchema, domain.ErrIssueNotFound, opts),
	}
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	return r.getByID(ctx, id)
}

func (r *issueRepository) List(ctx context.Context) ([]domain.Issue, error) {
	return r.find(ctx, active())
}

// ListByUser includes archived issues so authors can see everything they raised.
func (r *issueRepository) ListByUser(ctx context.Context, userID string) ([]domain.Issue, error) {
	if userID == "" {
		return nil, domain.Invalid("user id is required")
	}
	return r.find(ctx, docstore.Eq("author.id", userID))
}

func (r *issueRepository) ListWaitingForApproval(ctx context.Context) ([]domain.Issue, error) {
	return r.find(ctx, active().And("approvedForRelease", false).And("rejected", false))
}

func (r *issueRepository) ListApproved(ctx context.Context) ([]domain.Issue, error) {
	return r.find(ctx, active().And("approvedForRelease", true).And("rejected", false))
}

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) (*domain.Issue, error) {
	return r.insert(ctx, issue)
}

func (r *issueRepository) Update(ctx context.Context, issue *domain.Issue) (*domain.Issue, error) {
	return r.update(ctx, issue)
}

func (r *issueRepository) Archive(ctx context.Context, id string, by domain.UserRef) error {
	if id == "" {
		return domain.Invalid("issue id is required")
	}
	return r.archive(ctx, docstore.ByID(id), by)
}
