package document

import (
	"context"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/internal/versioning"
	"github.com/fastygo/tracker/repository"
	"github.com/fastygo/tracker/repository/docstore"
)

type userRepository struct {
	store[domain.User, *domain.User]
}

func NewUserRepository(db docstore.Database, opts ...versioning.Option) repository.UserRepository {
	return &userRepository{
		store: newStore[domain.User, *domain.User](db, UsersCollection, UserSchema, domain.ErrUserNotFound, opts),
	}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getByID(ctx, id)
}

func (r *userRepository) GetByObjectIdentifier(ctx context.Context, objectID string) (*domain.User, error) {
	if objectID == "" {
		return nil, domain.Invalid("object identifier is required")
	}
	return r.findOne(ctx, docstore.Eq("objectIdentifier", objectID))
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.find(ctx, docstore.All())
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.insert(ctx, user)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.update(ctx, user)
}

func (r *userRepository) Archive(ctx context.Context, id string, by domain.UserRef) error {
	if id == "" {
		return domain.Invalid("user id is required")
	}
	return r.archive(ctx, docstore.ByID(id), by)
}
