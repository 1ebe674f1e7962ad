package usecase

import (
	"context"

	"github.com/fastygo/tracker/domain"
)

const (
	EntityIssue   = "issue"
	EntityComment = "comment"

	// OperationCreate is the only buffered operation; updates must reach the store to be conflict checked.
	OperationCreate = "create"
)

// OperationBuffer abstracts the buffer processor so use cases stay storage-agnostic.
type OperationBuffer interface {
	BufferIssue(ctx context.Context, operation string, issue *domain.Issue) error
	BufferComment(ctx context.Context, operation string, comment *domain.Comment) error
}
