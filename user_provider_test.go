package blog_test

import (
	"context"
	"testing"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedUser(t *testing.T, password string) *blog.User {
	t.Helper()
	hash, err := blog.HashPassword(password)
	require.NoError(t, err)

	return &blog.User{
		ID:           mustUUID("b3b1c2d4-0000-4000-8000-000000000001"),
		Name:         "Pepe Rone",
		Email:        "pepe.rone@example.com",
		PasswordHash: hash,
		Role:         blog.RoleMember,
	}
}

func TestVerifyIdentity(t *testing.T) {
	password := "secret123"

	t.Run("valid credentials", func(t *testing.T) {
		users := &MockUsers{}
		provider := blog.NewUserProvider(users).WithLogger(testLogger{})

		users.On("GetByIdentifier", mock.Anything, "pepe.rone@example.com").
			Return(storedUser(t, password), nil).Once()

		identity, err := provider.VerifyIdentity(context.Background(), "pepe.rone@example.com", password)
		require.NoError(t, err)
		assert.Equal(t, "pepe.rone@example.com", identity.Email())
		assert.Equal(t, "Pepe Rone", identity.Name())

		users.AssertExpectations(t)
	})

	t.Run("email is normalized before lookup", func(t *testing.T) {
		users := &MockUsers{}
		provider := blog.NewUserProvider(users)

		users.On("GetByIdentifier", mock.Anything, "pepe.rone@example.com").
			Return(storedUser(t, password), nil).Once()

		_, err := provider.VerifyIdentity(context.Background(), "  Pepe.Rone@Example.COM ", password)
		require.NoError(t, err)

		users.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := &MockUsers{}
		provider := blog.NewUserProvider(users)

		users.On("GetByIdentifier", mock.Anything, "pepe.rone@example.com").
			Return(storedUser(t, password), nil).Once()

		identity, err := provider.VerifyIdentity(context.Background(), "pepe.rone@example.com", "wrong-password")
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, blog.ErrMismatchedHashAndPassword)
	})

	t.Run("unknown email burns a comparison and fails the same way", func(t *testing.T) {
		users := &MockUsers{}
		provider := blog.NewUserProvider(users)

		users.On("GetByIdentifier", mock.Anything, "nobody@example.com").
			Return(nil, repository.NewRecordNotFound()).Once()

		identity, err := provider.VerifyIdentity(context.Background(), "nobody@example.com", password)
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, blog.ErrMismatchedHashAndPassword)
	})

	t.Run("nil user without error fails the same way", func(t *testing.T) {
		users := &MockUsers{}
		provider := blog.NewUserProvider(users)

		users.On("GetByIdentifier", mock.Anything, "nobody@example.com").
			Return(nil, nil).Once()

		identity, err := provider.VerifyIdentity(context.Background(), "nobody@example.com", password)
		assert.Nil(t, identity)
		assert.ErrorIs(t, err, blog.ErrMismatchedHashAndPassword)
	})
}

func TestFindIdentityByIdentifier(t *testing.T) {
	users := &MockUsers{}
	provider := blog.NewUserProvider(users)

	users.On("GetByIdentifier", mock.Anything, "b3b1c2d4-0000-4000-8000-000000000001").
		Return(storedUser(t, "secret123"), nil).Once()

	identity, err := provider.FindIdentityByIdentifier(context.Background(), "b3b1c2d4-0000-4000-8000-000000000001")
	require.NoError(t, err)
	assert.Equal(t, "b3b1c2d4-0000-4000-8000-000000000001", identity.ID())

	t.Run("missing identity", func(t *testing.T) {
		users.On("GetByIdentifier", mock.Anything, "missing").
			Return(nil, nil).Once()

		_, err := provider.FindIdentityByIdentifier(context.Background(), "missing")
		assert.ErrorIs(t, err, blog.ErrIdentityNotFound)
	})
}
