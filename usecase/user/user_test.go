package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/repository/docstore/memstore"
	"github.com/fastygo/tracker/repository/document"
)

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	uc := New(document.NewUserRepository(memstore.New()), nil)

	created, err := uc.CreateUser(ctx, &domain.User{ObjectIdentifier: "oid-7", DisplayName: "carol"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAuthor, created.Role)

	_, err = uc.CreateUser(ctx, &domain.User{})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	byOID, err := uc.GetUserFromAuthentication(ctx, "oid-7")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byOID.ID)

	byID, err := uc.GetUserFromAuthentication(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol", byID.DisplayName)

	_, err = uc.GetUserFromAuthentication(ctx, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.GetUserFromAuthentication(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	byID.EmailAddress = "carol@example.com"
	updated, err := uc.UpdateUser(ctx, byID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)

	require.NoError(t, uc.ArchiveUser(ctx, created.ID, updated.Ref()))
	users, err := uc.GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.True(t, users[0].Archived)

	got, err := uc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
}
