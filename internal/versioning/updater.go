// Package versioning implements optimistic-concurrency updates over a docstore collection.
//
// An update replaces the stored document only while its version still equals the version
// the caller observed. Losers are told who won (the stored version) and what differs;
// nothing is retried here. Retry is the caller's decision, see Retry.
package versioning

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/repository/docstore"
)

// Document is the pointer form of a versioned record.
type Document[T any] interface {
	*T
	EntityID() string
	EntityVersion() int
	LastModified() time.Time
	Stamp(version int, at time.Time)
}

// Schema describes one entity type to the updater.
type Schema[T any] struct {
	// Entity names the type in errors and logs.
	Entity string
	// Fields are compared to build ConflictInfo.ChangedFields.
	Fields []Field[T]
	// Project returns the view of the stored document that may be shown to the caller.
	// When nil, conflicts carry no document.
	Project func(*T) any
}

type settings struct {
	now           func() time.Time
	logger        *zap.Logger
	strictMissing bool
}

type Option func(*settings)

func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStrictMissing reports NotFound when the target document does not exist, instead of
// handing the caller's copy back unchanged.
func WithStrictMissing() Option {
	return func(s *settings) {
		s.strictMissing = true
	}
}

// Updater performs versioned updates of one entity type.
type Updater[T any, P Document[T]] struct {
	coll   docstore.Collection
	schema Schema[T]
	settings
}

func NewUpdater[T any, P Document[T]](coll docstore.Collection, schema Schema[T], opts ...Option) *Updater[T, P] {
	s := settings{now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}
	return &Updater[T, P]{coll: coll, schema: schema, settings: s}
}

// Update stores submitted as the next version of its document.
//
// On success the freshly read stored document is returned. When the stored version differs
// from submitted's version a *domain.ConflictError is returned. When no document with the
// id exists, submitted itself is returned with a nil error (or NotFound in strict mode).
// Storage failures are returned as ErrCodeUnavailable domain errors. submitted is never modified.
func (u *Updater[T, P]) Update(ctx context.Context, submitted *T) (*T, error) {
	if submitted == nil {
		return nil, domain.ErrInvalidPayload
	}
	caller := P(submitted)
	id := caller.EntityID()
	if id == "" {
		return nil, domain.Invalid(u.schema.Entity + " id is required")
	}
	expected := caller.EntityVersion()

	// The caller's copy may be stale, so the stored timestamp also bounds the next one.
	previous := caller.LastModified()
	current, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if current != nil && P(current).LastModified().After(previous) {
		previous = P(current).LastModified()
	}

	replacement, err := clone(submitted)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "clone "+u.schema.Entity, err)
	}
	P(replacement).Stamp(expected+1, u.nextModified(previous))

	logger := u.logger.With(
		zap.String("entity", u.schema.Entity),
		zap.String("id", id),
		zap.Int("expected_version", expected),
	)
	logger.Debug("attempting versioned replace", zap.Int("replacement_version", expected+1))

	matched, err := u.coll.ReplaceOne(ctx, docstore.ByID(id).WithVersion(expected), replacement)
	if err != nil {
		return nil, domain.Unavailable("replace "+u.schema.Entity, err)
	}

	if matched > 0 {
		stored, err := u.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if stored == nil {
			return nil, domain.Unavailable("replace "+u.schema.Entity,
				errors.New("replaced but could not read back document"))
		}
		logger.Info("versioned replace succeeded", zap.Int("version", P(stored).EntityVersion()))
		return stored, nil
	}

	stored, err := u.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		if u.strictMissing {
			return nil, domain.NewError(domain.ErrCodeNotFound, u.schema.Entity+" not found")
		}
		logger.Warn("versioned replace target does not exist; returning submitted document")
		return submitted, nil
	}

	info := domain.ConflictInfo{
		ActualVersion: P(stored).EntityVersion(),
		ChangedFields: ChangedFields(u.schema.Fields, submitted, stored),
	}
	if u.schema.Project != nil {
		info.Current = u.schema.Project(stored)
	}
	logger.Info("versioned replace conflict",
		zap.Int("actual_version", info.ActualVersion),
		zap.Strings("changed_fields", info.ChangedFields))

	return nil, &domain.ConflictError{Entity: u.schema.Entity, ID: id, Info: info}
}

// load reads the document by id; a missing document yields (nil, nil).
func (u *Updater[T, P]) load(ctx context.Context, id string) (*T, error) {
	var stored T
	if err := u.coll.FindOne(ctx, docstore.ByID(id), &stored); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, nil
		}
		return nil, domain.Unavailable("read "+u.schema.Entity, err)
	}
	return &stored, nil
}

// nextModified returns the current time, moved forward when needed so that it is strictly
// after previous at storage precision.
func (u *Updater[T, P]) nextModified(previous time.Time) time.Time {
	now := domain.StoreTime(u.now())
	if previous.IsZero() {
		return now
	}
	floor := domain.StoreTime(previous).Add(time.Millisecond)
	if now.Before(floor) {
		return floor
	}
	return now
}

// clone deep-copies v through the BSON codec so the replacement shares no memory with the caller's copy.
func clone[T any](v *T) (*T, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
