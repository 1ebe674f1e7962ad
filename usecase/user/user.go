package user

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{users: users, logger: logger}
}

func (uc *UseCase) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, domain.ErrInvalidPayload
	}
	if strings.TrimSpace(user.DisplayName) == "" {
		return nil, domain.Invalid("display name is required")
	}
	if user.Role == "" {
		user.Role = domain.RoleAuthor
	}
	return uc.users.Create(ctx, user)
}

func (uc *UseCase) ArchiveUser(ctx context.Context, id string, by domain.UserRef) error {
	return uc.users.Archive(ctx, id, by)
}

func (uc *UseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return uc.users.GetByID(ctx, id)
}

func (uc *UseCase) GetUsers(ctx context.Context) ([]domain.User, error) {
	return uc.users.List(ctx)
}

// GetUserFromAuthentication resolves the user behind an authenticated subject.
// The subject is matched against the identity-provider id first, then the stored id.
func (uc *UseCase) GetUserFromAuthentication(ctx context.Context, subject string) (*domain.User, error) {
	if subject == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.users.GetByObjectIdentifier(ctx, subject)
	if err == nil || !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return user, err
	}
	return uc.users.GetByID(ctx, subject)
}

func (uc *UseCase) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil || user.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	return uc.users.Update(ctx, user)
}
