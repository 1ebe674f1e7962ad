package document

import (
	"context"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/internal/versioning"
	"github.com/fastygo/tracker/repository"
	"github.com/fastygo/tracker/repository/docstore"
)

type categoryRepository struct {
	store[domain.Category, *domain.Category]
}

func NewCategoryRepository(db docstore.Database, opts ...versioning.Option) repository.CategoryRepository {
	return &categoryRepository{
		store: newStore[domain.Category, *domain.Category](db, CategoriesCollection, CategorySchema, domain.ErrCategoryNotFound, opts),
	}
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	return r.getByID(ctx, id)
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	if slug == "" {
		return nil, domain.Invalid("category slug is required")
	}
	return r.bySlug(ctx, slug)
}

func (r *categoryRepository) List(ctx context.Context, includeArchived bool) ([]domain.Category, error) {
	if includeArchived {
		return r.find(ctx, docstore.All())
	}
	return r.find(ctx, active())
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	return r.insert(ctx, category)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	return r.update(ctx, category)
}

func (r *categoryRepository) ArchiveBySlug(ctx context.Context, slug string, by domain.UserRef) error {
	if slug == "" {
		return domain.Invalid("category slug is required")
	}
	return r.archive(ctx, active().And("slug", slug), by)
}
