package category

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
	categories repository.CategoryRepository
	cache      usecase.Cache
	ttl        time.Duration
	logger     *zap.Logger
}

func New(categories repository.CategoryRepository, cache usecase.Cache, policy usecase.CachePolicy, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := policy.Long
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &UseCase{
		categories: categories,
		cache:      cache,
		ttl:        ttl,
		logger:     logger,
	}
}

func (uc *UseCase) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, domain.ErrInvalidPayload
	}
	if strings.TrimSpace(category.CategoryName) == "" {
		return nil, domain.Invalid("category name is required")
	}
	base := category.Slug
	if base == "" {
		base = domain.GenerateSlug(category.CategoryName)
	}
	slug, err := usecase.UniqueSlug(ctx, base, uc.categories.GetBySlug)
	if err != nil {
		return nil, err
	}
	category.Slug = slug

	created, err := uc.categories.Create(ctx, category)
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	uc.logger.Info("category created", zap.String("id", created.ID), zap.String("slug", created.Slug))
	return created, nil
}

func (uc *UseCase) ArchiveCategory(ctx context.Context, slug string, by domain.UserRef) error {
	defer uc.invalidate(ctx)
	return uc.categories.ArchiveBySlug(ctx, slug, by)
}

func (uc *UseCase) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return uc.categories.GetByID(ctx, id)
}

func (uc *UseCase) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return uc.categories.GetBySlug(ctx, slug)
}

// GetCategories returns the non-archived categories, served from cache when possible.
func (uc *UseCase) GetCategories(ctx context.Context) ([]domain.Category, error) {
	return usecase.Cached(ctx, uc.cache, uc.logger, usecase.CategoryDataKey, uc.ttl,
		func(ctx context.Context) ([]domain.Category, error) {
			return uc.categories.List(ctx, false)
		})
}

func (uc *UseCase) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil || category.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	defer uc.invalidate(ctx)
	return uc.categories.Update(ctx, category)
}

func (uc *UseCase) invalidate(ctx context.Context) {
	usecase.Invalidate(ctx, uc.cache, uc.logger, usecase.CategoryDataKey, usecase.ArticleDataKey)
}
