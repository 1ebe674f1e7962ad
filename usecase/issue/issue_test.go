package issue

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

var author = domain.UserRef{ID: "u-1", DisplayName: "alice"}

type fixture struct {
	uc         *UseCase
	issues     repository.IssueRepository
	categories repository.CategoryRepository
	statuses   repository.StatusRepository
	cache      *cache.Memory
	category   *domain.Category
	watching   *domain.Status
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := memstore.New()
	f := &fixture{
		issues:     document.NewIssueRepository(db),
		categories: document.NewCategoryRepository(db),
		statuses:   document.NewStatusRepository(db),
		cache:      cache.NewMemory(time.Minute),
	}
	var err error
	f.category, err = f.categories.Create(ctx, &domain.Category{CategoryName: "Design", Slug: "design"})
	require.NoError(t, err)
	_, err = f.statuses.Create(ctx, &domain.Status{StatusName: "Answered"})
	require.NoError(t, err)
	f.watching, err = f.statuses.Create(ctx, &domain.Status{StatusName: DefaultStatusName})
	require.NoError(t, err)

	f.uc = New(f.issues, f.categories, f.statuses, nil, f.cache, usecase.CachePolicy{Short: time.Minute}, nil)
	return f
}

func (f *fixture) create(t *testing.T, title string) *domain.Issue {
	t.Helper()
	created, err := f.uc.CreateIssue(context.Background(), &domain.Issue{
		Title:    title,
		Author:   author,
		Category: domain.CategoryRef{ID: f.category.ID},
	})
	require.NoError(t, err)
	return created
}

func TestCreateIssueResolvesReferences(t *testing.T) {
	f := newFixture(t)

	created := f.create(t, "Broken link")
	assert.Equal(t, "Design", created.Category.CategoryName)
	require.NotNil(t, created.Status)
	assert.Equal(t, f.watching.ID, created.Status.ID)
	assert.True(t, created.WaitingForApproval())

	_, err := f.uc.CreateIssue(context.Background(), &domain.Issue{Title: "x", Author: author})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = f.uc.CreateIssue(context.Background(), &domain.Issue{
		Title: "x", Author: author, Category: domain.CategoryRef{ID: "missing"},
	})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestGetIssuesIsCachedAndInvalidated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.create(t, "first")

	list, err := f.uc.GetIssues(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	var cached []domain.Issue
	hit, err := f.cache.Get(ctx, usecase.IssueDataKey, &cached)
	require.NoError(t, err)
	assert.True(t, hit)

	byUser, err := f.uc.GetIssuesByUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	f.create(t, "second")
	hit, err = f.cache.Get(ctx, usecase.IssueDataKey, &cached)
	require.NoError(t, err)
	assert.False(t, hit)
	hit, err = f.cache.Get(ctx, usecase.UserIssuesKey(author.ID), &cached)
	require.NoError(t, err)
	assert.False(t, hit)

	list, err = f.uc.GetIssues(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUpdateIssueConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.create(t, "title")

	mine := *created
	theirs := *created

	theirs.Title = "their title"
	_, err := f.uc.UpdateIssue(ctx, &theirs)
	require.NoError(t, err)

	mine.Description = "my description"
	_, err = f.uc.UpdateIssue(ctx, &mine)
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, 1, conflict.Info.ActualVersion)
	assert.Equal(t, []string{"Title", "Description"}, conflict.Info.ChangedFields)
}

func TestApprovalFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.create(t, "needs review")

	approved, err := f.uc.Approve(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, approved.Approved())
	assert.Equal(t, 1, approved.Version)

	list, err := f.uc.GetApprovedIssues(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	rejected, err := f.uc.Reject(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, rejected.Rejected)
	assert.False(t, rejected.ApprovedForRelease)

	waiting, err := f.uc.GetIssuesWaitingForApproval(ctx)
	require.NoError(t, err)
	assert.Empty(t, waiting)

	_, err = f.uc.Approve(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrIssueNotFound)
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.create(t, "status me")

	statuses, err := f.statuses.List(ctx)
	require.NoError(t, err)
	var answered domain.Status
	for _, s := range statuses {
		if s.StatusName == "Answered" {
			answered = s
		}
	}

	updated, err := f.uc.SetStatus(ctx, created.ID, answered.ID)
	require.NoError(t, err)
	assert.Equal(t, "Answered", updated.Status.StatusName)

	_, err = f.uc.SetStatus(ctx, created.ID, "")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestArchiveIssue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.create(t, "old")

	require.NoError(t, f.uc.ArchiveIssue(ctx, created.ID, author))
	list, err := f.uc.GetIssues(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.uc.Approve(ctx, created.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

type unavailableIssues struct {
	repository.IssueRepository
}

func (unavailableIssues) Create(_ context.Context, issue *domain.Issue) (*domain.Issue, error) {
	issue.Prepare(time.Now())
	return nil, domain.Unavailable("create issue", errors.New("connection refused"))
}

type recordingBuffer struct {
	issues []domain.Issue
}

func (b *recordingBuffer) BufferIssue(_ context.Context, _ string, issue *domain.Issue) error {
	b.issues = append(b.issues, *issue)
	return nil
}

func (b *recordingBuffer) BufferComment(context.Context, string, *domain.Comment) error {
	return nil
}

func TestCreateIssueBuffersWhenStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	buf := &recordingBuffer{}
	uc := New(unavailableIssues{f.issues}, f.categories, f.statuses, buf, f.cache, usecase.CachePolicy{}, nil)

	out, err := uc.CreateIssue(ctx, &domain.Issue{Title: "offline", Author: author, Category: domain.CategoryRef{ID: f.category.ID}})
	require.NoError(t, err)
	require.Len(t, buf.issues, 1)
	assert.Equal(t, out.ID, buf.issues[0].ID)

	withoutBuffer := New(unavailableIssues{f.issues}, f.categories, f.statuses, nil, nil, usecase.CachePolicy{}, nil)
	_, err = withoutBuffer.CreateIssue(ctx, &domain.Issue{Title: "offline", Author: author, Category: domain.CategoryRef{ID: f.category.ID}})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
}

func TestReplayCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	payload := []byte(`{"id":"i-replayed","title":"from buffer","author":{"id":"u-1","displayName":"alice"},"category":{"id":"c","categoryName":"Design"}}`)

	require.NoError(t, f.uc.ReplayCreate(ctx, payload))
	require.NoError(t, f.uc.ReplayCreate(ctx, payload))

	got, err := f.uc.GetIssue(ctx, "i-replayed")
	require.NoError(t, err)
	assert.Equal(t, "from buffer", got.Title)
	assert.Equal(t, 0, got.Version)

	assert.Error(t, f.uc.ReplayCreate(ctx, []byte("not json")))
}
