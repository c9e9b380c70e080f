package blog

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// DefaultContextKey is the cookie name and locals key for the session token.
const DefaultContextKey = "blog_session"

// ErrorResponse is the JSON body every failed request gets: a human readable
// message plus a stable machine code.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WriteError translates any error into the response taxonomy. Detail stays
// in the server log; callers get the category-appropriate status and a
// generic message for anything internal.
func WriteError(c *fiber.Ctx, logger Logger, err error) error {
	if logger == nil {
		logger = defLogger{}
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		logger.Error("unhandled error reached transport", "error", err)
		richErr = errors.Wrap(err, errors.CategoryInternal, "Internal server error").
			WithCode(errors.CodeInternal)
	}

	status := richErr.Code
	if status < http.StatusBadRequest {
		status = statusFromCategory(richErr.Category)
	}

	body := ErrorResponse{
		Message: richErr.Message,
		Code:    richErr.TextCode,
	}

	if status >= http.StatusInternalServerError {
		logger.Error("internal error", "error", richErr, "metadata", richErr.Metadata)
		body.Message = "Internal server error"
		body.Code = "INTERNAL"
	}

	return c.Status(status).JSON(body)
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryValidation, errors.CategoryConflict:
		return http.StatusBadRequest
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RouteAuthenticator glues the Authenticator to the HTTP transport: it signs
// users in, sets the session cookie, and clears it on sign out.
type RouteAuthenticator struct {
	auth           Authenticator
	cfg            Config
	cookieDuration time.Duration
	Logger         Logger
}

// NewHTTPAuthenticator returns a new RouteAuthenticator
func NewHTTPAuthenticator(auther Authenticator, cfg Config) (*RouteAuthenticator, error) {
	cookieDuration := 24 * time.Hour
	if cfg.GetTokenExpiration() > 0 {
		cookieDuration = time.Duration(cfg.GetTokenExpiration()) * time.Hour
	}

	return &RouteAuthenticator{
		cfg:            cfg,
		auth:           auther,
		Logger:         defLogger{},
		cookieDuration: cookieDuration,
	}, nil
}

func (a RouteAuthenticator) GetCookieDuration() time.Duration {
	return a.cookieDuration
}

// Login authenticates the payload and attaches the minted token to the
// response as an HTTPOnly cookie. The token is also returned so API clients
// can use bearer auth instead.
func (a *RouteAuthenticator) Login(c *fiber.Ctx, email, password string) (string, error) {
	token, err := a.auth.Login(c.UserContext(), email, password)
	if err != nil {
		a.Logger.Error("Login error", "error", err)
		return "", err
	}

	a.setCookieToken(c, token, a.cookieDuration)
	return token, nil
}

// Logout discards the session cookie. Tokens already issued stay valid until
// expiry; there is no revocation.
func (a *RouteAuthenticator) Logout(c *fiber.Ctx) {
	a.cookieDel(c, a.cfg.GetContextKey())
}

func (a *RouteAuthenticator) setCookieToken(c *fiber.Ctx, val string, duration time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     a.cfg.GetContextKey(),
		Value:    val,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

func (a *RouteAuthenticator) cookieDel(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}
