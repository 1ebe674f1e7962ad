package versioning

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/repository/docstore"
	"github.com/fastygo/tracker/repository/docstore/memstore"
)

var issueSchema = Schema[domain.Issue]{
	Entity: "issue",
	Fields: []Field[domain.Issue]{
		F("Title", func(i *domain.Issue) any { return i.Title }),
		F("Description", func(i *domain.Issue) any { return i.Description }),
		F("Status", func(i *domain.Issue) any { return i.Status }),
		F("ApprovedForRelease", func(i *domain.Issue) any { return i.ApprovedForRelease }),
		F("Rejected", func(i *domain.Issue) any { return i.Rejected }),
		F("Archived", func(i *domain.Issue) any { return i.Archived }),
	},
	Project: func(i *domain.Issue) any {
		return map[string]any{"title": i.Title, "version": i.Version}
	},
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func seedIssue(t *testing.T, coll docstore.Collection, created time.Time) *domain.Issue {
	t.Helper()
	issue := &domain.Issue{Title: "Login broken", Description: "500 on submit"}
	issue.Prepare(created)
	require.NoError(t, coll.InsertOne(context.Background(), issue))
	return issue
}

func readIssue(t *testing.T, coll docstore.Collection, id string) *domain.Issue {
	t.Helper()
	var stored domain.Issue
	require.NoError(t, coll.FindOne(context.Background(), docstore.ByID(id), &stored))
	return &stored
}

func TestUpdaterIncrementsVersion(t *testing.T) {
	ctx := context.Background()
	coll := memstore.New().Collection("issues")
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	issue := seedIssue(t, coll, created)

	u := NewUpdater[domain.Issue](coll, issueSchema, WithClock(fixedClock(created.Add(time.Hour))))

	edited := *issue
	edited.Title = "Login broken on Safari"
	updated, err := u.Update(ctx, &edited)
	require.NoError(t, err)

	assert.Equal(t, 1, updated.Version)
	assert.Equal(t, "Login broken on Safari", updated.Title)
	require.NotNil(t, updated.ModifiedOn)
	assert.True(t, updated.ModifiedOn.Equal(created.Add(time.Hour)))

	stored := readIssue(t, coll, issue.ID)
	assert.Equal(t, 1, stored.Version)
	assert.Equal(t, "Login broken on Safari", stored.Title)

	// the submitted copy is left untouched
	assert.Equal(t, 0, edited.Version)
	assert.Nil(t, edited.ModifiedOn)
}

func TestUpdaterReadBackVersionAlwaysSucceeds(t *testing.T) {
	ctx := context.Background()
	coll := memstore.New().Collection("issues")
	issue := seedIssue(t, coll, time.Now())
	u := NewUpdater[domain.Issue](coll, issueSchema)

	for i := 1; i <= 5; i++ {
		current := readIssue(t, coll, issue.ID)
		current.Description = current.Description + "!"
		updated, err := u.Update(ctx, current)
		require.NoError(t, err)
		assert.Equal(t, i, updated.Version)
	}
}

func TestUpdaterConcurrentWritersOneWins(t *testing.T) {
	ctx := context.Background()
	coll := memstore.New().Collection("issues")
	issue := seedIssue(t, coll, time.Now())
	u := NewUpdater[domain.Issue](coll, issueSchema)

	const writers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts []*domain.ConflictError
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			edited := *issue
			edited.Title = "writer " + string(rune('a'+n))
			_, err := u.Update(ctx, &edited)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
				return
			}
			var conflict *domain.ConflictError
			if errors.As(err, &conflict) {
				conflicts = append(conflicts, conflict)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	require.Len(t, conflicts, writers-1)
	for _, c := range conflicts {
		assert.Equal(t, 1, c.Info.ActualVersion)
		assert.Equal(t, issue.ID, c.ID)
		assert.True(t, domain.IsDomainError(c, domain.ErrCodeConcurrency))
	}
	assert.Equal(t, 1, readIssue(t, coll, issue.ID).Version)
}

func TestUpdaterConflictReportsChangedFields(t *testing.T) {
	ctx := context.Background()
	coll := memstore.New().Collection("issues")
	issue := seedIssue(t, coll, time.Now())
	u := NewUpdater[domain.Issue](coll, issueSchema)

	winner := *issue
	winner.Title = "Renamed"
	winner.Status = &domain.StatusRef{ID: "s1", StatusName: "Answered"}
	_, err := u.Update(ctx, &winner)
	require.NoError(t, err)

	stale := *issue
	stale.Description = "500 on submit"
	_, err = u.Update(ctx, &stale)
	require.Error(t, err)

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, 1, conflict.Info.ActualVersion)
	assert.Equal(t, []string{"Title", "Status"}, conflict.Info.ChangedFields)
	assert.Equal(t, map[string]any{"title": "Renamed", "version": 1}, conflict.Info.Current)
	assert.ErrorIs(t, err, domain.ErrConcurrency)
}

func TestUpdaterMissingDocumentReturnsInput(t *testing.T) {
	ctx := context.Background()
	coll := memstore.New().Collection("issues")
	u := NewUpdater[domain.Issue](coll, issueSchema)

	ghost := &domain.Issue{Entity: domain.Entity{ID: "missing", Version: 4}, Title: "ghost"}
	out, err := u.Update(ctx, ghost)
	require.NoError(t, err)
	assert.Same(t, ghost, out)
	assert.Equal(t, 4, out.Version)
	assert.Nil(t, out.ModifiedOn)
}

func TestUpdaterStrictMissing(t *testing.T) {
	coll := memstore.New().Collection("issues")
	u := NewUpdater[domain.Issue](coll, issueSchema, WithStrictMissing())

	_, err := u.Update(context.Background(), &domain.Issue{Entity: domain.Entity{ID: "missing"}})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestUpdaterRejectsInvalidInput(t *testing.T) {
	u := NewUpdater[domain.Issue](memstore.New().Collection("issues"), issueSchema)

	_, err := u.Update(context.Background(), nil)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = u.Update(context.Background(), &domain.Issue{Title: "no id"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestUpdaterModifiedOnStrictlyIncreases(t *testing.T) {
	ctx := context.Background()
	coll := memstore.New().Collection("issues")
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	issue := seedIssue(t, coll, created)

	// the clock lags behind the stored timestamps
	u := NewUpdater[domain.Issue](coll, issueSchema, WithClock(fixedClock(created.Add(-time.Minute))))

	first, err := u.Update(ctx, issue)
	require.NoError(t, err)
	require.NotNil(t, first.ModifiedOn)
	assert.True(t, first.ModifiedOn.After(created))

	second, err := u.Update(ctx, first)
	require.NoError(t, err)
	assert.True(t, second.ModifiedOn.After(*first.ModifiedOn))
}

func TestUpdaterDocumentWithoutVersionMatches(t *testing.T) {
	ctx := context.Background()
	coll := memstore.New().Collection("issues")
	require.NoError(t, coll.InsertOne(ctx, map[string]any{"id": "legacy", "title": "imported"}))

	u := NewUpdater[domain.Issue](coll, issueSchema)
	updated, err := u.Update(ctx, &domain.Issue{Entity: domain.Entity{ID: "legacy"}, Title: "imported"})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)
}

func TestUpdaterModifiedOnFollowsStoredDocument(t *testing.T) {
	ctx := context.Background()
	coll := memstore.New().Collection("issues")
	stamped := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, coll.InsertOne(ctx, map[string]any{
		"id":         "legacy",
		"title":      "imported",
		"createdOn":  stamped.Add(-time.Hour),
		"modifiedOn": stamped,
	}))

	// stale copy from before the import touched modifiedOn, and a clock lagging behind it
	stale := &domain.Issue{Entity: domain.Entity{ID: "legacy", CreatedOn: stamped.Add(-time.Hour)}, Title: "edited"}
	u := NewUpdater[domain.Issue](coll, issueSchema, WithClock(fixedClock(stamped.Add(-time.Minute))))

	updated, err := u.Update(ctx, stale)
	require.NoError(t, err)
	require.NotNil(t, updated.ModifiedOn)
	assert.True(t, updated.ModifiedOn.After(stamped), "got %s", updated.ModifiedOn)
	assert.Equal(t, 1, updated.Version)
}

type failingCollection struct {
	docstore.Collection
	err error
}

func (f failingCollection) ReplaceOne(context.Context, docstore.Filter, any) (int64, error) {
	return 0, f.err
}

func TestUpdaterWrapsStorageErrors(t *testing.T) {
	boom := errors.New("connection reset")
	coll := failingCollection{Collection: memstore.New().Collection("issues"), err: boom}
	u := NewUpdater[domain.Issue](coll, issueSchema)

	_, err := u.Update(context.Background(), &domain.Issue{Entity: domain.Entity{ID: "i1"}})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
	assert.ErrorIs(t, err, boom)
}

func TestChangedFields(t *testing.T) {
	a := &domain.Issue{Title: "a", Status: &domain.StatusRef{ID: "s"}}
	b := &domain.Issue{Title: "a", Status: &domain.StatusRef{ID: "s"}, Rejected: true}

	assert.Equal(t, []string{"Rejected"}, ChangedFields(issueSchema.Fields, a, b))
	assert.Empty(t, ChangedFields(issueSchema.Fields, a, a))

	votes := []Field[domain.Comment]{F("UserVotes", func(c *domain.Comment) any { return c.UserVotes })}
	assert.Empty(t, ChangedFields(votes, &domain.Comment{}, &domain.Comment{UserVotes: []string{}}))
	assert.Equal(t, []string{"UserVotes"},
		ChangedFields(votes, &domain.Comment{}, &domain.Comment{UserVotes: []string{"u1"}}))
}
