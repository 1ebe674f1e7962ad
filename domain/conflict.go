package domain

import "fmt"

// ConflictInfo describes the stored state that defeated a versioned update.
type ConflictInfo struct {
	ActualVersion int      `json:"actualVersion"`
	Current       any      `json:"current,omitempty"`
	ChangedFields []string `json:"changedFields"`
}

// ConflictError is returned when the stored version no longer matches the version the caller observed.
// It unwraps to ErrConcurrency so IsDomainError(err, ErrCodeConcurrency) holds.
type ConflictError struct {
	Entity string
	ID     string
	Info   ConflictInfo
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("concurrency conflict: %s %s was modified by another process (stored version %d)",
		e.Entity, e.ID, e.Info.ActualVersion)
}

func (e *ConflictError) Unwrap() error {
	return ErrConcurrency
}
