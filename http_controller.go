package blog

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// AuthController owns the credential endpoints: sign up, sign in, sign out.
type AuthController struct {
	Logger    Logger
	Repo      RepositoryManager
	Auther    *RouteAuthenticator
	HashidIDs bool
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing RouteAuthenticator in auth controller...")
	}

	return c
}

func WithAuthRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithAuthLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithRouteAuthenticator(auther *RouteAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

// WithHashidIDs derives new account ids from the email address instead of
// random uuids.
func WithHashidIDs(enabled bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.HashidIDs = enabled
		return c
	}
}

// SignUp handles POST /auth/signup.
func (a *AuthController) SignUp(c *fiber.Ctx) error {
	payload := new(RegisterUserMessage)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("sign up parse payload", "error", err)
		return WriteError(c, a.Logger, errors.Wrap(err, errors.CategoryValidation, "Failed to parse request body").
			WithCode(errors.CodeBadRequest))
	}

	payload.UseHashid = a.HashidIDs

	registerUser := RegisterUserHandler{Repo: a.Repo, Logger: a.Logger}
	if _, err := registerUser.Execute(c.UserContext(), *payload); err != nil {
		a.Logger.Error("sign up register user", "email", payload.Email, "error", err)
		return WriteError(c, a.Logger, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
	})
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// SessionCreate handles POST /auth/session. Whatever went wrong, the caller
// only learns that sign-in failed.
func (a *AuthController) SessionCreate(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("session create parse payload", "error", err)
		return WriteError(c, a.Logger, ErrMismatchedHashAndPassword)
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("session create validate payload", "error", err)
		return WriteError(c, a.Logger, ErrMismatchedHashAndPassword)
	}

	token, err := a.Auther.Login(c, payload.Email, payload.Password)
	if err != nil {
		return WriteError(c, a.Logger, ErrMismatchedHashAndPassword)
	}

	return c.JSON(fiber.Map{
		"token": token,
	})
}

// SessionDestroy handles DELETE /auth/session.
func (a *AuthController) SessionDestroy(c *fiber.Ctx) error {
	a.Auther.Logout(c)
	return c.JSON(fiber.Map{
		"message": "Signed out",
	})
}
