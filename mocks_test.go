package blog_test

import (
	"context"
	"database/sql"
	"io"
	"time"

	blog "github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/storage"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}

// testConfig satisfies blog.Config for wiring tests.
type testConfig struct {
	signingKey      string
	contextKey      string
	tokenExpiration int
	issuer          string
	audience        []string
}

func (c testConfig) GetSigningKey() string   { return c.signingKey }
func (c testConfig) GetContextKey() string   { return c.contextKey }
func (c testConfig) GetTokenExpiration() int { return c.tokenExpiration }
func (c testConfig) GetAuthScheme() string   { return "Bearer" }
func (c testConfig) GetIssuer() string       { return c.issuer }
func (c testConfig) GetAudience() []string   { return c.audience }

func newTestConfig() testConfig {
	return testConfig{
		signingKey:      "test-signing-key",
		contextKey:      "blog_session",
		tokenExpiration: 1,
		issuer:          "go-blog-test",
		audience:        []string{"go-blog-test"},
	}
}

// MockIdentityProvider implements blog.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, email, password string) (blog.Identity, error) {
	args := m.Called(ctx, email, password)
	identity, _ := args.Get(0).(blog.Identity)
	return identity, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (blog.Identity, error) {
	args := m.Called(ctx, identifier)
	identity, _ := args.Get(0).(blog.Identity)
	return identity, args.Error(1)
}

// stubRepositoryManager hands out the stubbed stores and runs transaction
// closures with a zero transaction, so in-transaction logic executes against
// the mocks and its error propagates unchanged.
type stubRepositoryManager struct {
	users    blog.Users
	posts    blog.Posts
	comments blog.Comments
}

func (s *stubRepositoryManager) Validate() error { return nil }
func (s *stubRepositoryManager) MustValidate()   {}

func (s *stubRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	var tx bun.Tx
	return f(ctx, tx)
}

func (s *stubRepositoryManager) Users() blog.Users       { return s.users }
func (s *stubRepositoryManager) Posts() blog.Posts       { return s.posts }
func (s *stubRepositoryManager) Comments() blog.Comments { return s.comments }

var _ blog.RepositoryManager = (*stubRepositoryManager)(nil)

// MockUsers stubs the user store. The embedded interface covers the methods
// no test exercises.
type MockUsers struct {
	mock.Mock
	blog.Users
}

func (m *MockUsers) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*blog.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*blog.User)
	return user, args.Error(1)
}

func (m *MockUsers) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*blog.User, error) {
	args := m.Called(ctx, tx, identifier)
	user, _ := args.Get(0).(*blog.User)
	return user, args.Error(1)
}

func (m *MockUsers) CreateTx(ctx context.Context, tx bun.IDB, record *blog.User, criteria ...repository.InsertCriteria) (*blog.User, error) {
	args := m.Called(ctx, tx, record)
	user, _ := args.Get(0).(*blog.User)
	return user, args.Error(1)
}

// MockPosts stubs the post store.
type MockPosts struct {
	mock.Mock
	blog.Posts
}

func (m *MockPosts) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]*blog.Post, error) {
	args := m.Called(ctx)
	posts, _ := args.Get(0).([]*blog.Post)
	return posts, args.Error(1)
}

func (m *MockPosts) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*blog.Post, error) {
	args := m.Called(ctx, id)
	post, _ := args.Get(0).(*blog.Post)
	return post, args.Error(1)
}

func (m *MockPosts) Create(ctx context.Context, record *blog.Post, criteria ...repository.InsertCriteria) (*blog.Post, error) {
	args := m.Called(ctx, record)
	post, _ := args.Get(0).(*blog.Post)
	return post, args.Error(1)
}

func (m *MockPosts) UpdateTx(ctx context.Context, tx bun.IDB, record *blog.Post, criteria ...repository.UpdateCriteria) (*blog.Post, error) {
	args := m.Called(ctx, tx, record)
	post, _ := args.Get(0).(*blog.Post)
	return post, args.Error(1)
}

func (m *MockPosts) DeleteTx(ctx context.Context, tx bun.IDB, id string) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockComments stubs the comment store.
type MockComments struct {
	mock.Mock
	blog.Comments
}

func (m *MockComments) ListByPost(ctx context.Context, postID string) ([]*blog.Comment, error) {
	args := m.Called(ctx, postID)
	comments, _ := args.Get(0).([]*blog.Comment)
	return comments, args.Error(1)
}

func (m *MockComments) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*blog.Comment, error) {
	args := m.Called(ctx, id)
	comment, _ := args.Get(0).(*blog.Comment)
	return comment, args.Error(1)
}

func (m *MockComments) Create(ctx context.Context, record *blog.Comment, criteria ...repository.InsertCriteria) (*blog.Comment, error) {
	args := m.Called(ctx, record)
	comment, _ := args.Get(0).(*blog.Comment)
	return comment, args.Error(1)
}

func (m *MockComments) UpdateTx(ctx context.Context, tx bun.IDB, record *blog.Comment, criteria ...repository.UpdateCriteria) (*blog.Comment, error) {
	args := m.Called(ctx, tx, record)
	comment, _ := args.Get(0).(*blog.Comment)
	return comment, args.Error(1)
}

func (m *MockComments) DeleteTx(ctx context.Context, tx bun.IDB, id string) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockImageStore implements storage.ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	args := m.Called(ctx, key, contentType, r)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.String(1), args.Error(2)
}

func (m *MockImageStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var _ storage.ImageStore = (*MockImageStore)(nil)

func mustUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

func testSession(userID string) *blog.SessionObject {
	now := time.Now()
	exp := now.Add(time.Hour)
	return &blog.SessionObject{
		UserID:         userID,
		Email:          "author@example.com",
		Name:           "Author",
		Role:           string(blog.RoleMember),
		IssuedAt:       &now,
		ExpirationDate: &exp,
	}
}
