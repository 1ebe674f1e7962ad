package status

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/repository"
	"github.com/fastygo/tracker/usecase"
)

type UseCase struct {
	statuses repository.StatusRepository
	cache    usecase.Cache
	ttl      time.Duration
	logger   *zap.Logger
}

func New(statuses repository.StatusRepository, cache usecase.Cache, policy usecase.CachePolicy, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := policy.Long
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &UseCase{
		statuses: statuses,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

func (uc *UseCase) CreateStatus(ctx context.Context, status *domain.Status) (*domain.Status, error) {
	if status == nil {
		return nil, domain.ErrInvalidPayload
	}
	if strings.TrimSpace(status.StatusName) == "" {
		return nil, domain.Invalid("status name is required")
	}
	created, err := uc.statuses.Create(ctx, status)
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	return created, nil
}

func (uc *UseCase) ArchiveStatus(ctx context.Context, id string, by domain.UserRef) error {
	defer uc.invalidate(ctx)
	return uc.statuses.Archive(ctx, id, by)
}

// DeleteStatus soft-deletes; issues keep their embedded copy of the status.
func (uc *UseCase) DeleteStatus(ctx context.Context, id string, by domain.UserRef) error {
	return uc.ArchiveStatus(ctx, id, by)
}

func (uc *UseCase) GetStatus(ctx context.Context, id string) (*domain.Status, error) {
	return uc.statuses.GetByID(ctx, id)
}

func (uc *UseCase) GetStatuses(ctx context.Context) ([]domain.Status, error) {
	return usecase.Cached(ctx, uc.cache, uc.logger, usecase.StatusDataKey, uc.ttl, uc.statuses.List)
}

// FindByName returns the non-archived status with the given name.
func (uc *UseCase) FindByName(ctx context.Context, name string) (*domain.Status, error) {
	statuses, err := uc.GetStatuses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range statuses {
		if strings.EqualFold(statuses[i].StatusName, name) {
			return &statuses[i], nil
		}
	}
	return nil, domain.ErrStatusNotFound
}

func (uc *UseCase) UpdateStatus(ctx context.Context, status *domain.Status) (*domain.Status, error) {
	if status == nil || status.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	defer uc.invalidate(ctx)
	return uc.statuses.Update(ctx, status)
}

func (uc *UseCase) invalidate(ctx context.Context) {
	usecase.Invalidate(ctx, uc.cache, uc.logger, usecase.StatusDataKey)
}
