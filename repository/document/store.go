// Package document implements the repository ports on a docstore.Database.
// Every Update goes through a versioning.Updater, so concurrent edits surface as conflicts.
package document

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/internal/versioning"
	"github.com/fastygo/tracker/repository/docstore"
)

const (
	ArticlesCollection   = "articles"
	CategoriesCollection = "categories"
	IssuesCollection     = "issues"
	CommentsCollection   = "comments"
	StatusesCollection   = "statuses"
	UsersCollection      = "users"
)

// Indexes lists the secondary lookups each collection serves.
var Indexes = map[string][]string{
	ArticlesCollection:   {"slug", "author.id"},
	CategoriesCollection: {"slug"},
	IssuesCollection:     {"author.id", "archived"},
	CommentsCollection:   {"issue.id", "author.id"},
	UsersCollection:      {"objectIdentifier"},
}

type record[T any] interface {
	versioning.Document[T]
	Prepare(now time.Time)
	Created() time.Time
}

// store holds the collection plumbing shared by every entity repository.
type store[T any, P record[T]] struct {
	coll     docstore.Collection
	updater  *versioning.Updater[T, P]
	entity   string
	notFound error
	now      func() time.Time
}

func newStore[T any, P record[T]](db docstore.Database, name string, schema versioning.Schema[T], notFound error, opts []versioning.Option) store[T, P] {
	coll := db.Collection(name)
	return store[T, P]{
		coll:     coll,
		updater:  versioning.NewUpdater[T, P](coll, schema, opts...),
		entity:   schema.Entity,
		notFound: notFound,
		now:      time.Now,
	}
}

func (s store[T, P]) findOne(ctx context.Context, filter docstore.Filter) (*T, error) {
	var out T
	if err := s.coll.FindOne(ctx, filter, &out); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, s.notFound
		}
		return nil, domain.Unavailable("read "+s.entity, err)
	}
	return &out, nil
}

func (s store[T, P]) getByID(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, domain.Invalid(s.entity + " id is required")
	}
	return s.findOne(ctx, docstore.ByID(id))
}

// find returns matching documents, newest first.
func (s store[T, P]) find(ctx context.Context, filter docstore.Filter) ([]T, error) {
	out := make([]T, 0)
	if err := s.coll.Find(ctx, filter, &out); err != nil {
		return nil, domain.Unavailable("list "+s.entity, err)
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return P(&b).Created().Compare(P(&a).Created())
	})
	return out, nil
}

func (s store[T, P]) insert(ctx context.Context, doc *T) (*T, error) {
	if doc == nil {
		return nil, domain.ErrInvalidPayload
	}
	P(doc).Prepare(s.now())
	if err := s.coll.InsertOne(ctx, doc); err != nil {
		if errors.Is(err, docstore.ErrDuplicate) {
			return nil, domain.WrapError(domain.ErrCodeConflict, s.entity+" already exists", err)
		}
		return nil, domain.Unavailable("create "+s.entity, err)
	}
	return doc, nil
}

func (s store[T, P]) update(ctx context.Context, doc *T) (*T, error) {
	return s.updater.Update(ctx, doc)
}

// archive soft-deletes the first document matching filter. The version still advances.
func (s store[T, P]) archive(ctx context.Context, filter docstore.Filter, by domain.UserRef) error {
	matched, err := s.coll.UpdateOne(ctx, filter, map[string]any{
		"archived":   true,
		"archivedBy": by,
		"modifiedOn": domain.StoreTime(s.now()),
	})
	if err != nil {
		return domain.Unavailable("archive "+s.entity, err)
	}
	if matched == 0 {
		return s.notFound
	}
	return nil
}

// bySlug prefers the active document and falls back to an archived one.
func (s store[T, P]) bySlug(ctx context.Context, slug string) (*T, error) {
	doc, err := s.findOne(ctx, active().And("slug", slug))
	if errors.Is(err, s.notFound) {
		return s.findOne(ctx, docstore.Eq("slug", slug))
	}
	return doc, err
}

func active() docstore.Filter {
	return docstore.Eq("archived", false)
}
