package comment

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/repository"
	"github.com/fastygo/tracker/usecase"
)

type UseCase struct {
	comments repository.CommentRepository
	issues   repository.IssueRepository
	buffer   usecase.OperationBuffer
	cache    usecase.Cache
	ttl      time.Duration
	logger   *zap.Logger
}

func New(
	comments repository.CommentRepository,
	issues repository.IssueRepository,
	buffer usecase.OperationBuffer,
	cache usecase.Cache,
	policy usecase.CachePolicy,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := policy.Short
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &UseCase{
		comments: comments,
		issues:   issues,
		buffer:   buffer,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

// CreateComment attaches the comment to an existing issue.
// When the store is unreachable the comment is buffered and returned as submitted.
func (uc *UseCase) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	if comment == nil {
		return nil, domain.ErrInvalidPayload
	}
	if strings.TrimSpace(comment.Title) == "" {
		return nil, domain.Invalid("comment title is required")
	}
	if comment.Issue.ID == "" {
		return nil, domain.Invalid("issue id is required")
	}
	if comment.Author.ID == "" {
		return nil, domain.Invalid("comment author is required")
	}

	issue, err := uc.issues.GetByID(ctx, comment.Issue.ID)
	switch {
	case err == nil:
		if issue.Archived {
			return nil, domain.Invalid("issue is archived")
		}
		comment.Issue = issue.Ref()
	case !domain.IsDomainError(err, domain.ErrCodeUnavailable):
		return nil, err
	}
	comment.UserVotes = nil
	comment.IsAnswer = false
	comment.AnswerSelectedBy = nil

	created, err := uc.comments.Create(ctx, comment)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeUnavailable) && uc.shouldBuffer(ctx, comment) {
			return comment, nil
		}
		return nil, err
	}
	uc.invalidate(ctx)
	return created, nil
}

// ReplayCreate stores a comment taken from the write buffer. A comment already present counts as stored.
func (uc *UseCase) ReplayCreate(ctx context.Context, payload []byte) error {
	var comment domain.Comment
	if err := json.Unmarshal(payload, &comment); err != nil {
		return err
	}
	if _, err := uc.comments.Create(ctx, &comment); err != nil && !domain.IsDomainError(err, domain.ErrCodeConflict) {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *UseCase) ArchiveComment(ctx context.Context, id string, by domain.UserRef) error {
	defer uc.invalidate(ctx)
	return uc.comments.Archive(ctx, id, by)
}

func (uc *UseCase) GetComment(ctx context.Context, id string) (*domain.Comment, error) {
	return uc.comments.GetByID(ctx, id)
}

// GetComments returns every non-archived comment.
func (uc *UseCase) GetComments(ctx context.Context) ([]domain.Comment, error) {
	return usecase.Cached(ctx, uc.cache, uc.logger, usecase.CommentDataKey, uc.ttl, uc.comments.List)
}

func (uc *UseCase) GetCommentsByUser(ctx context.Context, userID string) ([]domain.Comment, error) {
	return uc.comments.ListByUser(ctx, userID)
}

func (uc *UseCase) GetCommentsByIssue(ctx context.Context, issueID string) ([]domain.Comment, error) {
	return uc.comments.ListByIssue(ctx, issueID)
}

func (uc *UseCase) UpdateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	if comment == nil || comment.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	defer uc.invalidate(ctx)
	return uc.comments.Update(ctx, comment)
}

// UpVoteComment toggles the user's vote. Authors cannot vote on their own comments.
func (uc *UseCase) UpVoteComment(ctx context.Context, commentID, userID string) (*domain.Comment, error) {
	if commentID == "" || userID == "" {
		return nil, domain.ErrInvalidPayload
	}
	current, err := uc.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if current.Author.ID == userID {
		return nil, domain.NewError(domain.ErrCodeForbidden, "cannot vote on your own comment")
	}
	defer uc.invalidate(ctx)
	return uc.comments.UpVote(ctx, commentID, userID)
}

func (uc *UseCase) shouldBuffer(ctx context.Context, comment *domain.Comment) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferComment(ctx, usecase.OperationCreate, comment); err != nil {
		uc.logger.Error("failed to buffer comment", zap.String("id", comment.ID), zap.Error(err))
		return false
	}
	uc.logger.Warn("comment create buffered", zap.String("id", comment.ID))
	return true
}

func (uc *UseCase) invalidate(ctx context.Context) {
	usecase.Invalidate(ctx, uc.cache, uc.logger, usecase.CommentDataKey)
}
