package blog

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GateConfig configures the session gate middleware.
type GateConfig struct {
	// Validator turns a raw token into structured claims.
	Validator TokenValidator
	// ContextKey is both the cookie name the token travels in and the
	// request-locals key the reconstructed session is stored under.
	ContextKey string
	// AuthScheme is the Authorization header scheme, defaults to Bearer.
	AuthScheme string
	// ErrorHandler terminates the request when no valid session is present.
	ErrorHandler func(c *fiber.Ctx, err error) error
	// Logger defaults to the package logger.
	Logger Logger
}

// RequireSession demands a valid session token on the request and
// short-circuits with an unauthorized response when it is absent or invalid.
// Handlers behind it can assume SessionFromContext succeeds; the guarded
// side effect never runs otherwise.
func RequireSession(cfg GateConfig) fiber.Handler {
	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}
	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			cfg.Logger.Info("session gate rejected request", "path", c.Path(), "error", err)
			return WriteError(c, cfg.Logger, ErrUnauthorized)
		}
	}

	return func(c *fiber.Ctx) error {
		raw := extractToken(c, cfg.ContextKey, cfg.AuthScheme)
		if raw == "" {
			return cfg.ErrorHandler(c, ErrUnableToFindSession)
		}

		claims, err := cfg.Validator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		session, err := sessionFromAuthClaims(claims)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, session)

		return c.Next()
	}
}

// SessionFromContext retrieves the session the gate stored on the request.
func SessionFromContext(c *fiber.Ctx, key string) (*SessionObject, error) {
	if key == "" {
		key = DefaultContextKey
	}

	val := c.Locals(key)
	if val == nil {
		return nil, ErrUnableToFindSession
	}

	session, ok := val.(*SessionObject)
	if !ok || session == nil {
		return nil, ErrUnableToDecodeSession
	}

	return session, nil
}

func extractToken(c *fiber.Ctx, cookieName, authScheme string) string {
	if tok := c.Cookies(cookieName); tok != "" {
		return tok
	}

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}

	prefix := authScheme + " "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}

	return ""
}
