package repository

import (
	"context"

	"github.com/fastygo/tracker/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByObjectIdentifier(ctx context.Context, objectID string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update stores the user as its next version; see versioning.Updater for the conflict contract.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Archive(ctx context.Context, id string, by domain.UserRef) error
}
