package monitor

import "time"

// Status is the last observed health of every backing service.
// Redis is nil when the cache runs in process.
type Status struct {
	Store       bool      `json:"store"`
	StoreDriver string    `json:"store_driver"`
	Redis       *bool     `json:"redis,omitempty"`
	Buffer      bool      `json:"buffer"`
	BufferSize  int       `json:"buffer_size"`
	LastCheck   time.Time `json:"last_check"`
}
