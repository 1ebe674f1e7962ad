package repository

import (
	"context"

	"github.com/fastygo/tracker/domain"
)

type ArticleFilter struct {
	IncludeArchived bool
	PublishedOnly   bool
	AuthorID        string
}

type ArticleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Article, error)
	List(ctx context.Context, filter ArticleFilter) ([]domain.Article, error)
	Create(ctx context.Context, article *domain.Article) (*domain.Article, error)
	Update(ctx context.Context, article *domain.Article) (*domain.Article, error)
	ArchiveBySlug(ctx context.Context, slug string, by domain.UserRef) error
}
