// Package docstore is the document-collection port used by the repositories and the versioned updater.
//
// Backends translate Filter values into their native query language; field names are the
// json/bson names of the domain types, with dotted paths addressing embedded documents.
package docstore

import (
	"context"
	"errors"
)

const (
	// VersionField holds the optimistic-concurrency counter in every document.
	VersionField = "version"
)

var (
	ErrNoDocument = errors.New("docstore: no document matched")
	ErrDuplicate  = errors.New("docstore: duplicate document id")
	ErrMissingID  = errors.New("docstore: document has no id")
)

// Collection is a named set of documents.
type Collection interface {
	Name() string
	// FindOne decodes the first document matching filter into dst, or returns ErrNoDocument.
	FindOne(ctx context.Context, filter Filter, dst any) error
	// Find decodes every matching document into dst, which must point to a slice.
	Find(ctx context.Context, filter Filter, dst any) error
	InsertOne(ctx context.Context, doc any) error
	// ReplaceOne atomically replaces the first document matching filter and reports how many matched.
	ReplaceOne(ctx context.Context, filter Filter, doc any) (int64, error)
	// UpdateOne sets top-level fields on the first matching document and increments its version.
	UpdateOne(ctx context.Context, filter Filter, set map[string]any) (int64, error)
}

// Database hands out collections and reports connectivity.
type Database interface {
	Driver() string
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
