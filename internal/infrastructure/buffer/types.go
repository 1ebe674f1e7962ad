package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	defaultPriority = 3
	maxPriority     = 5
)

// Item is a write that could not reach the document store and waits for replay.
// ID is the id of the buffered document so replays of the same write collapse.
type Item struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id,omitempty"`
	Entity    string          `json:"entity"`
	Operation string          `json:"operation"`
	Data      json.RawMessage `json:"data"`
	Priority  int             `json:"priority"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize(now time.Time) {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Priority <= 0 || i.Priority > maxPriority {
		i.Priority = defaultPriority
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = now
	}
}
