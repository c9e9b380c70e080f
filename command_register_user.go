package blog

import (
	"context"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

// emailPattern is deliberately loose: anything shaped like a@b.c passes.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type RegisterUserMessage struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	UseHashid       bool   `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate runs the sign-up rules in order, first failure wins. No I/O
// happens until every local check has passed.
func (e RegisterUserMessage) Validate() error {
	for _, field := range []string{e.Name, e.Email, e.Password, e.ConfirmPassword} {
		if err := validation.Validate(field, validation.Required); err != nil {
			return ErrMissingFields
		}
	}

	if err := validation.Validate(e.Email, validation.Match(emailPattern)); err != nil {
		return ErrInvalidEmail
	}

	if e.Password != e.ConfirmPassword {
		return ErrPasswordMismatch
	}

	if err := validation.Validate(e.Password, validation.Length(6, 0)); err != nil {
		return ErrPasswordTooShort
	}

	return nil
}

// RegisterUserHandler persists new identities. Email uniqueness is checked
// here (check-then-insert) and backstopped by the unique index on the email
// column, which closes the race between two concurrent sign-ups.
type RegisterUserHandler struct {
	Repo   RepositoryManager
	Logger Logger
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	email := NormalizeEmail(event.Email)

	err := h.Repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := h.Repo.Users().GetByIdentifierTx(ctx, tx, email)
		if err != nil && !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing user")
		}

		if existing != nil {
			return ErrUserExists
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.Name = event.Name
		user.Email = email
		user.PasswordHash = hash
		user.Role = RoleMember
		if event.UseHashid {
			if id, err := hashid.NewUUID(email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.Repo.Users().CreateTx(ctx, tx, user); err != nil {
			if isUniqueViolation(err) {
				return ErrUserExists
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return user, nil
}

// isUniqueViolation catches the duplicate-email race the pre-insert check
// can miss. The string match covers raw driver errors that reach us without
// going through the repository's classifier.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	if repository.IsConstraintViolation(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
