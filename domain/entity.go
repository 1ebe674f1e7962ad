package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity carries the identity, versioning and soft-delete state shared by every stored record.
// It is embedded by value; the bson inline tag keeps its fields at the top level of the document.
type Entity struct {
	ID         string     `json:"id" bson:"_id"`
	Version    int        `json:"version" bson:"version"`
	CreatedOn  time.Time  `json:"createdOn" bson:"createdOn"`
	ModifiedOn *time.Time `json:"modifiedOn,omitempty" bson:"modifiedOn,omitempty"`
	Archived   bool       `json:"archived" bson:"archived"`
	ArchivedBy *UserRef   `json:"archivedBy,omitempty" bson:"archivedBy,omitempty"`
}

// StoreTime normalises a timestamp to the precision every document store keeps.
func StoreTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func (e *Entity) EntityID() string {
	return e.ID
}

func (e *Entity) EntityVersion() int {
	return e.Version
}

// LastModified returns ModifiedOn, or CreatedOn for records never updated.
func (e *Entity) LastModified() time.Time {
	if e.ModifiedOn != nil {
		return *e.ModifiedOn
	}
	return e.CreatedOn
}

// Stamp records a storage-assigned version and modification time.
func (e *Entity) Stamp(version int, at time.Time) {
	at = StoreTime(at)
	e.Version = version
	e.ModifiedOn = &at
}

func (e *Entity) Created() time.Time {
	return e.CreatedOn
}

// Prepare readies a record for insertion: new ID and creation time when missing, version zero.
// Records replayed from the write buffer keep the id and creation time they were given first.
func (e *Entity) Prepare(now time.Time) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedOn.IsZero() {
		e.CreatedOn = StoreTime(now)
	} else {
		e.CreatedOn = StoreTime(e.CreatedOn)
	}
	e.Version = 0
	e.ModifiedOn = nil
}

// MarkArchived flags the record as soft-deleted by the given user.
func (e *Entity) MarkArchived(by *UserRef) {
	e.Archived = true
	e.ArchivedBy = by
}
