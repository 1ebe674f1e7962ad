package document

import (
	"context"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/internal/versioning"
	"github.com/fastygo/tracker/repository"
	"github.com/fastygo/tracker/repository/docstore"
)

type articleRepository struct {
	store[domain.Article, *domain.Article]
}

func NewArticleRepository(db docstore.Database, opts ...versioning.Option) repository.ArticleRepository {
	return &articleRepository{
		store: newStore[domain.Article, *domain.Article](db, ArticlesCollection, ArticleSchema, domain.ErrArticleNotFound, opts),
	}
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	return r.getByID(ctx, id)
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	if slug == "" {
		return nil, domain.Invalid("article slug is required")
	}
	return r.bySlug(ctx, slug)
}

func (r *articleRepository) List(ctx context.Context, filter repository.ArticleFilter) ([]domain.Article, error) {
	f := docstore.All()
	if !filter.IncludeArchived {
		f = active()
	}
	if filter.PublishedOnly {
		f = f.And("isPublished", true)
	}
	if filter.AuthorID != "" {
		f = f.And("author.id", filter.AuthorID)
	}
	return r.find(ctx, f)
}

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	return r.insert(ctx, article)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	return r.update(ctx, article)
}

func (r *articleRepository) ArchiveBySlug(ctx context.Context, slug string, by domain.UserRef) error {
	if slug == "" {
		return domain.Invalid("article slug is required")
	}
	return r.archive(ctx, active().And("slug", slug), by)
}
