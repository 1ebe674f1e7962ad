package issue

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/internal/versioning"
	"github.com/fastygo/tracker/repository"
	"github.com/fastygo/tracker/usecase"
)

// DefaultStatusName is assigned to new issues that arrive without a status.
const DefaultStatusName = "Watching"

type UseCase struct {
	issues     repository.IssueRepository
	categories repository.CategoryRepository
	statuses   repository.StatusRepository
	buffer     usecase.OperationBuffer
	cache      usecase.Cache
	ttl        time.Duration
	logger     *zap.Logger
}

func New(
	issues repository.IssueRepository,
	categories repository.CategoryRepository,
	statuses repository.StatusRepository,
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
		issues:     issues,
		categories: categories,
		statuses:   statuses,
		buffer:     buffer,
		cache:      cache,
		ttl:        ttl,
		logger:     logger,
	}
}

// CreateIssue resolves the category and default status, then stores the issue.
// When the store is unreachable the issue is buffered and returned as submitted.
func (uc *UseCase) CreateIssue(ctx context.Context, issue *domain.Issue) (*domain.Issue, error) {
	if issue == nil {
		return nil, domain.ErrInvalidPayload
	}
	if strings.TrimSpace(issue.Title) == "" {
		return nil, domain.Invalid("issue title is required")
	}
	if issue.Author.ID == "" {
		return nil, domain.Invalid("issue author is required")
	}
	if err := uc.resolveRefs(ctx, issue); err != nil && !domain.IsDomainError(err, domain.ErrCodeUnavailable) {
		return nil, err
	}

	created, err := uc.issues.Create(ctx, issue)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeUnavailable) && uc.shouldBuffer(ctx, issue) {
			return issue, nil
		}
		return nil, err
	}
	uc.invalidate(ctx, created.Author.ID)
	return created, nil
}

// ReplayCreate stores an issue taken from the write buffer. An issue already present counts as stored.
func (uc *UseCase) ReplayCreate(ctx context.Context, payload []byte) error {
	var issue domain.Issue
	if err := json.Unmarshal(payload, &issue); err != nil {
		return err
	}
	if _, err := uc.issues.Create(ctx, &issue); err != nil && !domain.IsDomainError(err, domain.ErrCodeConflict) {
		return err
	}
	uc.invalidate(ctx, issue.Author.ID)
	return nil
}

func (uc *UseCase) ArchiveIssue(ctx context.Context, id string, by domain.UserRef) error {
	issue, err := uc.issues.GetByID(ctx, id)
	if err != nil {
		return err
	}
	defer uc.invalidate(ctx, issue.Author.ID)
	return uc.issues.Archive(ctx, id, by)
}

func (uc *UseCase) GetIssue(ctx context.Context, id string) (*domain.Issue, error) {
	return uc.issues.GetByID(ctx, id)
}

func (uc *UseCase) GetIssues(ctx context.Context) ([]domain.Issue, error) {
	return usecase.Cached(ctx, uc.cache, uc.logger, usecase.IssueDataKey, uc.ttl, uc.issues.List)
}

func (uc *UseCase) GetIssuesByUser(ctx context.Context, userID string) ([]domain.Issue, error) {
	if userID == "" {
		return nil, domain.Invalid("user id is required")
	}
	return usecase.Cached(ctx, uc.cache, uc.logger, usecase.UserIssuesKey(userID), uc.ttl,
		func(ctx context.Context) ([]domain.Issue, error) {
			return uc.issues.ListByUser(ctx, userID)
		})
}

func (uc *UseCase) GetIssuesWaitingForApproval(ctx context.Context) ([]domain.Issue, error) {
	return uc.issues.ListWaitingForApproval(ctx)
}

func (uc *UseCase) GetApprovedIssues(ctx context.Context) ([]domain.Issue, error) {
	return uc.issues.ListApproved(ctx)
}

// UpdateIssue stores the caller's copy as the next version. A stale version yields a *domain.ConflictError.
func (uc *UseCase) UpdateIssue(ctx context.Context, issue *domain.Issue) (*domain.Issue, error) {
	if issue == nil || issue.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	defer uc.invalidate(ctx, issue.Author.ID)
	return uc.issues.Update(ctx, issue)
}

// SetStatus moves the issue to the given status, re-reading it when another write lands first.
func (uc *UseCase) SetStatus(ctx context.Context, id, statusID string) (*domain.Issue, error) {
	if statusID == "" {
		return nil, domain.Invalid("status id is required")
	}
	status, err := uc.statuses.GetByID(ctx, statusID)
	if err != nil {
		return nil, err
	}
	if status.Archived {
		return nil, domain.Invalid("status is archived")
	}
	ref := status.Ref()
	return uc.mutate(ctx, id, func(issue *domain.Issue) error {
		issue.Status = &ref
		return nil
	})
}

func (uc *UseCase) Approve(ctx context.Context, id string) (*domain.Issue, error) {
	return uc.mutate(ctx, id, func(issue *domain.Issue) error {
		issue.ApprovedForRelease = true
		issue.Rejected = false
		return nil
	})
}

func (uc *UseCase) Reject(ctx context.Context, id string) (*domain.Issue, error) {
	return uc.mutate(ctx, id, func(issue *domain.Issue) error {
		issue.Rejected = true
		issue.ApprovedForRelease = false
		return nil
	})
}

func (uc *UseCase) mutate(ctx context.Context, id string, apply func(*domain.Issue) error) (*domain.Issue, error) {
	if id == "" {
		return nil, domain.Invalid("issue id is required")
	}
	updated, err := versioning.Retry(ctx, versioning.DefaultAttempts,
		func(ctx context.Context) (*domain.Issue, error) {
			return uc.issues.GetByID(ctx, id)
		},
		func(issue *domain.Issue) error {
			if issue.Archived {
				return domain.Invalid("issue is archived")
			}
			return apply(issue)
		},
		uc.issues.Update,
	)
	if err != nil {
		uc.invalidate(ctx, "")
		return nil, err
	}
	uc.invalidate(ctx, updated.Author.ID)
	return updated, nil
}

func (uc *UseCase) resolveRefs(ctx context.Context, issue *domain.Issue) error {
	if issue.Category.ID == "" {
		return domain.Invalid("issue category is required")
	}
	category, err := uc.categories.GetByID(ctx, issue.Category.ID)
	if err != nil {
		return err
	}
	issue.Category = category.Ref()

	if issue.Status != nil && issue.Status.ID != "" {
		status, err := uc.statuses.GetByID(ctx, issue.Status.ID)
		if err != nil {
			return err
		}
		ref := status.Ref()
		issue.Status = &ref
		return nil
	}

	statuses, err := uc.statuses.List(ctx)
	if err != nil {
		return err
	}
	for _, s := range statuses {
		if s.StatusName == DefaultStatusName {
			ref := s.Ref()
			issue.Status = &ref
			break
		}
	}
	return nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, issue *domain.Issue) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferIssue(ctx, usecase.OperationCreate, issue); err != nil {
		uc.logger.Error("failed to buffer issue", zap.String("id", issue.ID), zap.Error(err))
		return false
	}
	uc.logger.Warn("issue create buffered", zap.String("id", issue.ID))
	return true
}

func (uc *UseCase) invalidate(ctx context.Context, authorID string) {
	keys := []string{usecase.IssueDataKey}
	if authorID != "" {
		keys = append(keys, usecase.UserIssuesKey(authorID))
	}
	usecase.Invalidate(ctx, uc.cache, uc.logger, keys...)
}
