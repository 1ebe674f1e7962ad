package article

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/internal/infrastructure/cache"
	"github.com/fastygo/tracker/repository"
	"github.com/fastygo/tracker/repository/docstore/memstore"
	"github.com/fastygo/tracker/repository/document"
	"github.com/fastygo/tracker/usecase"
)

var writer = domain.UserRef{ID: "u-w", DisplayName: "writer"}

func TestArticleLifecycle(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	categories := document.NewCategoryRepository(db)
	category, err := categories.Create(ctx, &domain.Category{CategoryName: "News", Slug: "news"})
	require.NoError(t, err)

	uc := New(document.NewArticleRepository(db), categories, cache.NewMemory(time.Minute), usecase.CachePolicy{}, nil)

	draft, err := uc.CreateArticle(ctx, &domain.Article{
		Title:    "Hello World",
		Author:   writer,
		Category: &domain.CategoryRef{ID: category.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello_world", draft.Slug)
	assert.Equal(t, "News", draft.Category.CategoryName)
	assert.Nil(t, draft.PublishedOn)

	_, err = uc.CreateArticle(ctx, &domain.Article{Title: "Release notes", Author: writer, IsPublished: true})
	require.NoError(t, err)

	all, err := uc.GetArticles(ctx, repository.ArticleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	published, err := uc.GetArticles(ctx, repository.ArticleFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, published, 1)
	require.NotNil(t, published[0].PublishedOn)

	bySlug, err := uc.GetArticleBySlug(ctx, "hello_world")
	require.NoError(t, err)
	stale := *bySlug

	bySlug.IsPublished = true
	updated, err := uc.UpdateArticle(ctx, bySlug)
	require.NoError(t, err)
	require.NotNil(t, updated.PublishedOn)

	published, err = uc.GetArticles(ctx, repository.ArticleFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Len(t, published, 2)

	stale.Content = "late edit"
	_, err = uc.UpdateArticle(ctx, &stale)
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Contains(t, conflict.Info.ChangedFields, "IsPublished")
	assert.Contains(t, conflict.Info.ChangedFields, "Content")

	require.NoError(t, uc.ArchiveArticle(ctx, "hello_world", writer))
	all, err = uc.GetArticles(ctx, repository.ArticleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	withArchived, err := uc.GetArticles(ctx, repository.ArticleFilter{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, withArchived, 2)

	got, err := uc.GetArticle(ctx, draft.ID)
	require.NoError(t, err)
	assert.True(t, got.Archived)
}

func TestCreateArticleDeduplicatesSlug(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	uc := New(document.NewArticleRepository(db), document.NewCategoryRepository(db), nil, usecase.CachePolicy{}, nil)

	first, err := uc.CreateArticle(ctx, &domain.Article{Title: "Hello World", Author: writer})
	require.NoError(t, err)
	second, err := uc.CreateArticle(ctx, &domain.Article{Title: "Hello World", Author: writer})
	require.NoError(t, err)
	third, err := uc.CreateArticle(ctx, &domain.Article{Title: "Hello World", Slug: "hello_world", Author: writer})
	require.NoError(t, err)

	assert.Equal(t, "hello_world", first.Slug)
	assert.Equal(t, "hello_world_2", second.Slug)
	assert.Equal(t, "hello_world_3", third.Slug)

	require.NoError(t, uc.ArchiveArticle(ctx, "hello_world_2", writer))
	got, err := uc.GetArticle(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, got.Archived)
	got, err = uc.GetArticle(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, got.Archived)

	fourth, err := uc.CreateArticle(ctx, &domain.Article{Title: "Hello World", Author: writer})
	require.NoError(t, err)
	assert.Equal(t, "hello_world_4", fourth.Slug, "archived slugs stay reserved")
}
