package services

import (
	"context"
	"encoding/json"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/internal/infrastructure/buffer"
	"github.com/fastygo/tracker/usecase"
)

const (
	issuePriority   = 2
	commentPriority = 3
)

// BufferBridge adapts the processor to the use case buffer port.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferIssue(ctx context.Context, operation string, issue *domain.Issue) error {
	if b.processor == nil || issue == nil || issue.ID == "" {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(issue)
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		ID:        issue.ID,
		UserID:    issue.Author.ID,
		Entity:    usecase.EntityIssue,
		Operation: operation,
		Data:      payload,
		Priority:  issuePriority,
	})
}

// BufferComment queues a comment after its issue so replays keep parent before child.
func (b *BufferBridge) BufferComment(ctx context.Context, operation string, comment *domain.Comment) error {
	if b.processor == nil || comment == nil || comment.ID == "" {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(comment)
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		ID:        comment.ID,
		UserID:    comment.Author.ID,
		Entity:    usecase.EntityComment,
		Operation: operation,
		Data:      payload,
		Priority:  commentPriority,
	})
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
