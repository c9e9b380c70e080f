package blog_test

import (
	"context"
	"errors"
	"testing"

	blog "github.com/goliatone/go-blog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoginSuccess(t *testing.T) {
	provider := &MockIdentityProvider{}
	auther := blog.NewAuthenticator(provider, newTestConfig()).WithLogger(testLogger{})

	provider.On("VerifyIdentity", mock.Anything, "pepe.rone@example.com", "secret123").
		Return(testIdentity(), nil).Once()

	token, err := auther.Login(context.Background(), "pepe.rone@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := auther.SessionFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "b3b1c2d4-0000-4000-8000-000000000001", session.GetUserID())
	assert.Equal(t, "pepe.rone@example.com", session.GetEmail())
	assert.Equal(t, "Pepe Rone", session.GetName())
	assert.Equal(t, "member", session.GetRole())

	provider.AssertExpectations(t)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	tests := []struct {
		name        string
		identity    blog.Identity
		providerErr error
	}{
		{
			name:        "provider rejects credentials",
			providerErr: blog.ErrMismatchedHashAndPassword,
		},
		{
			name:        "provider store breaks",
			providerErr: errors.New("connection refused"),
		},
		{
			name:     "provider returns no identity",
			identity: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &MockIdentityProvider{}
			auther := blog.NewAuthenticator(provider, newTestConfig()).WithLogger(testLogger{})

			provider.On("VerifyIdentity", mock.Anything, mock.Anything, mock.Anything).
				Return(tt.identity, tt.providerErr).Once()

			token, err := auther.Login(context.Background(), "whoever@example.com", "whatever")
			assert.Empty(t, token)
			assert.ErrorIs(t, err, blog.ErrMismatchedHashAndPassword)

			provider.AssertExpectations(t)
		})
	}
}

func TestSessionFromTokenRejectsInvalid(t *testing.T) {
	provider := &MockIdentityProvider{}
	auther := blog.NewAuthenticator(provider, newTestConfig())

	_, err := auther.SessionFromToken("not-a-token")
	assert.Error(t, err)
}

func TestIdentityFromSession(t *testing.T) {
	provider := &MockIdentityProvider{}
	auther := blog.NewAuthenticator(provider, newTestConfig()).WithLogger(testLogger{})

	want := testIdentity()
	provider.On("FindIdentityByIdentifier", mock.Anything, "b3b1c2d4-0000-4000-8000-000000000001").
		Return(want, nil).Once()

	got, err := auther.IdentityFromSession(context.Background(), testSession("b3b1c2d4-0000-4000-8000-000000000001"))
	require.NoError(t, err)
	assert.Equal(t, want.ID(), got.ID())
	assert.Equal(t, want.Email(), got.Email())

	provider.AssertExpectations(t)
}
