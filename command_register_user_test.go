package blog_test

import (
	"context"
	"errors"
	"testing"

	blog "github.com/goliatone/go-blog"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validSignup() blog.RegisterUserMessage {
	return blog.RegisterUserMessage{
		Name:            "Pepe Rone",
		Email:           "pepe.rone@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}
}

func TestRegisterUserMessageValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*blog.RegisterUserMessage)
		wantErr error
	}{
		{
			name:   "valid message",
			mutate: func(m *blog.RegisterUserMessage) {},
		},
		{
			name:    "missing name",
			mutate:  func(m *blog.RegisterUserMessage) { m.Name = "" },
			wantErr: blog.ErrMissingFields,
		},
		{
			name:    "missing email",
			mutate:  func(m *blog.RegisterUserMessage) { m.Email = "" },
			wantErr: blog.ErrMissingFields,
		},
		{
			name:    "missing password",
			mutate:  func(m *blog.RegisterUserMessage) { m.Password = "" },
			wantErr: blog.ErrMissingFields,
		},
		{
			name:    "missing confirmation",
			mutate:  func(m *blog.RegisterUserMessage) { m.ConfirmPassword = "" },
			wantErr: blog.ErrMissingFields,
		},
		{
			name:    "invalid email shape",
			mutate:  func(m *blog.RegisterUserMessage) { m.Email = "pepe.rone-example.com" },
			wantErr: blog.ErrInvalidEmail,
		},
		{
			name:    "email without tld",
			mutate:  func(m *blog.RegisterUserMessage) { m.Email = "pepe@example" },
			wantErr: blog.ErrInvalidEmail,
		},
		{
			name: "password confirmation mismatch",
			mutate: func(m *blog.RegisterUserMessage) {
				m.ConfirmPassword = "different123"
			},
			wantErr: blog.ErrPasswordMismatch,
		},
		{
			name: "password too short",
			mutate: func(m *blog.RegisterUserMessage) {
				m.Password = "abc"
				m.ConfirmPassword = "abc"
			},
			wantErr: blog.ErrPasswordTooShort,
		},
		{
			name: "six characters is enough",
			mutate: func(m *blog.RegisterUserMessage) {
				m.Password = "abcdef"
				m.ConfirmPassword = "abcdef"
			},
		},
		{
			name: "missing fields outranks invalid email",
			mutate: func(m *blog.RegisterUserMessage) {
				m.Name = ""
				m.Email = "not-an-email"
			},
			wantErr: blog.ErrMissingFields,
		},
		{
			name: "invalid email outranks short password",
			mutate: func(m *blog.RegisterUserMessage) {
				m.Email = "not-an-email"
				m.Password = "abc"
				m.ConfirmPassword = "abc"
			},
			wantErr: blog.ErrInvalidEmail,
		},
		{
			name: "mismatch outranks short password",
			mutate: func(m *blog.RegisterUserMessage) {
				m.Password = "abc"
				m.ConfirmPassword = "xyz"
			},
			wantErr: blog.ErrPasswordMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validSignup()
			tt.mutate(&msg)

			err := msg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterUserHandlerCreatesUser(t *testing.T) {
	users := &MockUsers{}
	repo := &stubRepositoryManager{users: users}
	handler := blog.RegisterUserHandler{Repo: repo, Logger: testLogger{}}

	users.On("GetByIdentifierTx", mock.Anything, mock.Anything, "pepe.rone@example.com").
		Return(nil, repository.NewRecordNotFound()).Once()

	users.On("CreateTx", mock.Anything, mock.Anything, mock.AnythingOfType("*blog.User")).
		Return(&blog.User{Email: "pepe.rone@example.com"}, nil).
		Run(func(args mock.Arguments) {
			record := args.Get(2).(*blog.User)
			assert.Equal(t, "Pepe Rone", record.Name)
			assert.Equal(t, "pepe.rone@example.com", record.Email)
			assert.Equal(t, blog.RoleMember, record.Role)
			assert.NoError(t, blog.ComparePasswordAndHash("secret123", record.PasswordHash))
		}).Once()

	user, err := handler.Execute(context.Background(), validSignup())
	require.NoError(t, err)
	require.NotNil(t, user)

	users.AssertExpectations(t)
}

func TestRegisterUserHandlerNormalizesEmail(t *testing.T) {
	users := &MockUsers{}
	repo := &stubRepositoryManager{users: users}
	handler := blog.RegisterUserHandler{Repo: repo, Logger: testLogger{}}

	users.On("GetByIdentifierTx", mock.Anything, mock.Anything, "pepe.rone@example.com").
		Return(nil, repository.NewRecordNotFound()).Once()
	users.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).
		Return(&blog.User{}, nil).
		Run(func(args mock.Arguments) {
			record := args.Get(2).(*blog.User)
			assert.Equal(t, "pepe.rone@example.com", record.Email)
		}).Once()

	msg := validSignup()
	msg.Email = "Pepe.Rone@Example.COM"

	_, err := handler.Execute(context.Background(), msg)
	require.NoError(t, err)

	users.AssertExpectations(t)
}

func TestRegisterUserHandlerHashidIdentifier(t *testing.T) {
	users := &MockUsers{}
	repo := &stubRepositoryManager{users: users}
	handler := blog.RegisterUserHandler{Repo: repo, Logger: testLogger{}}

	// Derived ids are stable: the same address always maps to the same uuid.
	want, err := hashid.NewUUID("pepe.rone@example.com")
	require.NoError(t, err)

	users.On("GetByIdentifierTx", mock.Anything, mock.Anything, "pepe.rone@example.com").
		Return(nil, repository.NewRecordNotFound()).Once()
	users.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).
		Return(&blog.User{}, nil).
		Run(func(args mock.Arguments) {
			record := args.Get(2).(*blog.User)
			assert.Equal(t, want, record.ID)
		}).Once()

	msg := validSignup()
	msg.UseHashid = true

	_, err = handler.Execute(context.Background(), msg)
	require.NoError(t, err)

	users.AssertExpectations(t)
}

func TestRegisterUserHandlerRejectsDuplicate(t *testing.T) {
	users := &MockUsers{}
	repo := &stubRepositoryManager{users: users}
	handler := blog.RegisterUserHandler{Repo: repo, Logger: testLogger{}}

	users.On("GetByIdentifierTx", mock.Anything, mock.Anything, "pepe.rone@example.com").
		Return(&blog.User{Email: "pepe.rone@example.com"}, nil).Once()

	user, err := handler.Execute(context.Background(), validSignup())
	assert.Nil(t, user)
	assert.ErrorIs(t, err, blog.ErrUserExists)

	users.AssertExpectations(t)
	users.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterUserHandlerUniqueIndexBackstop(t *testing.T) {
	// The pre-insert check misses but the index catches the race, whatever
	// shape the driver reports it in.
	driverErrors := []struct {
		name string
		err  error
	}{
		{
			name: "sqlite unique constraint",
			err:  errors.New("constraint failed: UNIQUE constraint failed: users.email"),
		},
		{
			name: "postgres duplicate key",
			err:  errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`),
		},
	}

	for _, tt := range driverErrors {
		t.Run(tt.name, func(t *testing.T) {
			users := &MockUsers{}
			repo := &stubRepositoryManager{users: users}
			handler := blog.RegisterUserHandler{Repo: repo, Logger: testLogger{}}

			users.On("GetByIdentifierTx", mock.Anything, mock.Anything, "pepe.rone@example.com").
				Return(nil, repository.NewRecordNotFound()).Once()
			users.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).
				Return(nil, tt.err).Once()

			user, err := handler.Execute(context.Background(), validSignup())
			assert.Nil(t, user)
			assert.ErrorIs(t, err, blog.ErrUserExists)

			users.AssertExpectations(t)
		})
	}
}

func TestRegisterUserHandlerValidatesBeforeIO(t *testing.T) {
	users := &MockUsers{}
	repo := &stubRepositoryManager{users: users}
	handler := blog.RegisterUserHandler{Repo: repo, Logger: testLogger{}}

	msg := validSignup()
	msg.Password = "abc"
	msg.ConfirmPassword = "abc"

	_, err := handler.Execute(context.Background(), msg)
	assert.ErrorIs(t, err, blog.ErrPasswordTooShort)

	users.AssertNotCalled(t, "GetByIdentifierTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterUserHandlerCancelledContext(t *testing.T) {
	repo := &stubRepositoryManager{users: &MockUsers{}}
	handler := blog.RegisterUserHandler{Repo: repo, Logger: testLogger{}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := handler.Execute(ctx, validSignup())
	require.Error(t, err)

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, goerrors.CategoryOperation, richErr.Category)
}
