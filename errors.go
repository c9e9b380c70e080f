package blog

import (
	stderrors "errors"
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes exposed to API clients alongside the human readable message.
const (
	TextCodeMissingFields    = "MISSING_FIELDS"
	TextCodeInvalidEmail     = "INVALID_EMAIL"
	TextCodePasswordMismatch = "PASSWORD_MISMATCH"
	TextCodePasswordTooShort = "PASSWORD_TOO_SHORT"
	TextCodeUserExists       = "USER_EXISTS"
	TextCodeInvalidCreds     = "INVALID_CREDENTIALS"
	TextCodeUnauthorized     = "UNAUTHORIZED"
	TextCodeForbidden        = "FORBIDDEN"
	TextCodeNotFound         = "NOT_FOUND"
	TextCodeEmptyPassword    = "EMPTY_PASSWORD"
	TextCodeTokenExpired     = "TOKEN_EXPIRED"
	TextCodeTokenMalformed   = "TOKEN_MALFORMED"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = stderrors.New("identity not found")

// ErrUnableToFindSession is the error when our request has no token
var ErrUnableToFindSession = stderrors.New("unable to find session")

// ErrUnableToDecodeSession unable to decode JWT from session token
var ErrUnableToDecodeSession = stderrors.New("unable to decode session")

// ErrUnableToParseData parse error
var ErrUnableToParseData = stderrors.New("unable to parse data")

// ErrNoEmptyString guards the hasher against empty passwords
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword)

// ErrMismatchedHashAndPassword is the single generic credential failure; the
// distinct reasons (unknown email, wrong password) are logged, never surfaced.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrMissingFields covers any empty required field during sign up
var ErrMissingFields = errors.New("All fields are required", errors.CategoryValidation).
	WithTextCode(TextCodeMissingFields).
	WithCode(errors.CodeBadRequest)

// ErrInvalidEmail is returned for addresses that fail the sign up pattern
var ErrInvalidEmail = errors.New("Invalid email address", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidEmail).
	WithCode(errors.CodeBadRequest)

// ErrPasswordMismatch is returned when password and confirmation differ
var ErrPasswordMismatch = errors.New("Passwords do not match", errors.CategoryValidation).
	WithTextCode(TextCodePasswordMismatch).
	WithCode(errors.CodeBadRequest)

// ErrPasswordTooShort enforces the minimum password length
var ErrPasswordTooShort = errors.New("Password must be at least 6 characters", errors.CategoryValidation).
	WithTextCode(TextCodePasswordTooShort).
	WithCode(errors.CodeBadRequest)

// ErrUserExists is returned when the email is already registered. Kept as a
// 400 to match the API contract clients already depend on.
var ErrUserExists = errors.New("User already exists", errors.CategoryConflict).
	WithTextCode(TextCodeUserExists).
	WithCode(errors.CodeBadRequest)

// ErrUnauthorized is the terminal response of the session gate
var ErrUnauthorized = errors.New("Unauthorized. Please sign in.", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(errors.CodeUnauthorized)

// ErrNotResourceOwner is returned when a session tries to mutate a resource
// it does not own
var ErrNotResourceOwner = errors.New("You do not have permission to modify this resource", errors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrTokenExpired is surfaced when a session token is past its expiry
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is surfaced for tokens we cannot parse or whose
// signature does not validate
var ErrTokenMalformed = errors.New("authentication token malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrPostContentRequired guards post create/update payloads
var ErrPostContentRequired = errors.New("Title and content are required.", errors.CategoryValidation).
	WithTextCode("POST_CONTENT_REQUIRED").
	WithCode(errors.CodeBadRequest)

// ErrCommentTextRequired guards comment create/update payloads
var ErrCommentTextRequired = errors.New("Comment text is required.", errors.CategoryValidation).
	WithTextCode("COMMENT_TEXT_REQUIRED").
	WithCode(errors.CodeBadRequest)

// ErrInvalidImageType rejects uploads outside the MIME allowlist
var ErrInvalidImageType = errors.New("Invalid image type.", errors.CategoryValidation).
	WithTextCode("INVALID_IMAGE_TYPE").
	WithCode(errors.CodeBadRequest)

// ErrPostNotFound is the terminal 404 for missing posts
var ErrPostNotFound = errors.New("Post not found.", errors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(errors.CodeNotFound)

// ErrCommentNotFound is the terminal 404 for missing comments
var ErrCommentNotFound = errors.New("Comment not found.", errors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(errors.CodeNotFound)

// ErrImageNotFound is the terminal 404 for posts without an image
var ErrImageNotFound = errors.New("Image not found.", errors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(errors.CodeNotFound)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired") ||
		strings.Contains(err.Error(), "token expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
