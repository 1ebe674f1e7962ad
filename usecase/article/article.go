package article

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/repository"
	"github.com/fastygo/tracker/usecase"
)

type UseCase struct {
	articles   repository.ArticleRepository
	categories repository.CategoryRepository
	cache      usecase.Cache
	ttl        time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

func New(
	articles repository.ArticleRepository,
	categories repository.CategoryRepository,
	cache usecase.Cache,
	policy usecase.CachePolicy,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := policy.Short
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &UseCase{
		articles:   articles,
		categories: categories,
		cache:      cache,
		ttl:        ttl,
		now:        time.Now,
		logger:     logger,
	}
}

// CreateArticle derives a unique slug from the title and resolves the category reference.
func (uc *UseCase) CreateArticle(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	if article == nil {
		return nil, domain.ErrInvalidPayload
	}
	if strings.TrimSpace(article.Title) == "" {
		return nil, domain.Invalid("article title is required")
	}
	base := article.Slug
	if base == "" {
		base = domain.GenerateSlug(article.Title)
	}
	slug, err := usecase.UniqueSlug(ctx, base, uc.articles.GetBySlug)
	if err != nil {
		return nil, err
	}
	article.Slug = slug
	if err := uc.resolveCategory(ctx, article); err != nil {
		return nil, err
	}
	if article.IsPublished {
		article.Publish(uc.now())
	}

	created, err := uc.articles.Create(ctx, article)
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	uc.logger.Info("article created", zap.String("id", created.ID), zap.String("slug", created.Slug))
	return created, nil
}

func (uc *UseCase) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	return uc.articles.GetByID(ctx, id)
}

func (uc *UseCase) GetArticleBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	return uc.articles.GetBySlug(ctx, slug)
}

// GetArticles serves the non-archived list from cache and narrows it in memory.
// Archived listings always go to the store.
func (uc *UseCase) GetArticles(ctx context.Context, filter repository.ArticleFilter) ([]domain.Article, error) {
	if filter.IncludeArchived {
		return uc.articles.List(ctx, filter)
	}

	all, err := usecase.Cached(ctx, uc.cache, uc.logger, usecase.ArticleDataKey, uc.ttl,
		func(ctx context.Context) ([]domain.Article, error) {
			return uc.articles.List(ctx, repository.ArticleFilter{})
		})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Article, 0, len(all))
	for _, a := range all {
		if filter.PublishedOnly && !a.IsPublished {
			continue
		}
		if filter.AuthorID != "" && a.Author.ID != filter.AuthorID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (uc *UseCase) UpdateArticle(ctx context.Context, article *domain.Article) (*domain.Article, error) {
	if article == nil || article.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if err := uc.resolveCategory(ctx, article); err != nil {
		return nil, err
	}
	if article.IsPublished {
		article.Publish(uc.now())
	}
	defer uc.invalidate(ctx)
	return uc.articles.Update(ctx, article)
}

func (uc *UseCase) ArchiveArticle(ctx context.Context, slug string, by domain.UserRef) error {
	defer uc.invalidate(ctx)
	return uc.articles.ArchiveBySlug(ctx, slug, by)
}

func (uc *UseCase) resolveCategory(ctx context.Context, article *domain.Article) error {
	if article.Category == nil || article.Category.ID == "" || uc.categories == nil {
		return nil
	}
	category, err := uc.categories.GetByID(ctx, article.Category.ID)
	if err != nil {
		return err
	}
	ref := category.Ref()
	article.Category = &ref
	return nil
}

func (uc *UseCase) invalidate(ctx context.Context) {
	usecase.Invalidate(ctx, uc.cache, uc.logger, usecase.ArticleDataKey)
}
