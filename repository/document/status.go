package document

import (
	"context"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/internal/versioning"
	"github.com/fastygo/tracker/repository"
	"github.com/fastygo/tracker/repository/docstore"
)

type statusRepository struct {
	store[domain.Status, *domain.Status]
}

func NewStatusRepository(db docstore.Database, opts ...versioning.Option) repository.StatusRepository {
	return &statusRepository{
		store: newStore[domain.Status, *domain.Status](db, StatusesCollection, StatusSchema, domain.ErrStatusNotFound, opts),
	}
}

func (r *statusRepository) GetByID(ctx context.Context, id string) (*domain.Status, error) {
	return r.getByID(ctx, id)
}

func (r *statusRepository) List(ctx context.Context) ([]domain.Status, error) {
	return r.find(ctx, active())
}

func (r *statusRepository) Create(ctx context.Context, status *domain.Status) (*domain.Status, error) {
	return r.insert(ctx, status)
}

func (r *statusRepository) Update(ctx context.Context, status *domain.Status) (*domain.Status, error) {
	return r.update(ctx, status)
}

func (r *statusRepository) Archive(ctx context.Context, id string, by domain.UserRef) error {
	if id == "" {
		return domain.Invalid("status id is required")
	}
	return r.archive(ctx, docstore.ByID(id), by)
}
