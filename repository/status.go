package repository

import (
	"context"

	"github.com/fastygo/tracker/domain"
)

type StatusRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Status, error)
	List(ctx context.Context) ([]domain.Status, error)
	Create(ctx context.Context, status *domain.Status) (*domain.Status, error)
	Update(ctx context.Context, status *domain.Status) (*domain.Status, error)
	Archive(ctx context.Context, id string, by domain.UserRef) error
}
