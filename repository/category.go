package repository

import (
	"context"

	"github.com/fastygo/tracker/domain"
)

type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context, includeArchived bool) ([]domain.Category, error)
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	ArchiveBySlug(ctx context.Context, slug string, by domain.UserRef) error
}
