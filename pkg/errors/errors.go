// Package errors normalizes BaaS, CDN, transport and validation failures
// into user-facing messages.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/cdn"
	"github.com/ahmednagradev/ansnips/pkg/optimistic"
)

// ErrorType categorizes different error types
type ErrorType string

const (
	// Network errors
	ErrorTypeNetwork ErrorType = "network"
	ErrorTypeTimeout ErrorType = "timeout"

	// Authentication errors
	ErrorTypeAuth           ErrorType = "auth"
	ErrorTypeUnauthorized   ErrorType = "unauthorized"
	ErrorTypeForbidden      ErrorType = "forbidden"
	ErrorTypeSessionExpired ErrorType = "session_expired"

	// Validation errors
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeFileNotFound  ErrorType = "file_not_found"
	ErrorTypeInvalidFormat ErrorType = "invalid_format"

	// Server errors
	ErrorTypeServer    ErrorType = "server"
	ErrorTypeNotFound  ErrorType = "not_found"
	ErrorTypeConflict  ErrorType = "conflict"
	ErrorTypeRateLimit ErrorType = "rate_limit"

	// Media errors
	ErrorTypeMedia    ErrorType = "media"
	ErrorTypeMediaCDN ErrorType = "media_cdn"

	// Client-side state
	ErrorTypeOwnership ErrorType = "ownership"
	ErrorTypeBusy      ErrorType = "busy"

	// Unknown errors
	ErrorTypeUnknown ErrorType = "unknown"
)

// CLIError represents a structured error with context
type CLIError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
	StatusCode int
	RetryAfter int
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// WithSuggestion adds a helpful suggestion to the error
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

// HasSuggestion returns true if the error has a suggestion
func (e *CLIError) HasSuggestion() bool {
	return e.Suggestion != ""
}

// Unwrap returns the underlying error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewCLIError creates a new CLI error
func NewCLIError(errorType ErrorType, message string, cause error) *CLIError {
	return &CLIError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NetworkError creates a network error
func NetworkError(message string) *CLIError {
	err := NewCLIError(ErrorTypeNetwork, message, nil)
	err.Suggestion = "Check your internet connection and the baas.endpoint setting, then try again."
	return err
}

// TimeoutError creates a timeout error
func TimeoutError() *CLIError {
	err := NewCLIError(ErrorTypeTimeout, "Request timed out", nil)
	err.Suggestion = "The server is taking too long to respond. Try again in a moment."
	return err
}

// AuthError creates an authentication error
func AuthError(message string) *CLIError {
	err := NewCLIError(ErrorTypeAuth, message, nil)
	err.Suggestion = "Try logging in again with 'ansnips auth login'"
	return err
}

// NotLoggedInError is returned by commands that need a session
func NotLoggedInError() *CLIError {
	err := NewCLIError(ErrorTypeAuth, "You are not logged in", nil)
	err.Suggestion = "Run 'ansnips auth login' or 'ansnips auth signup' first."
	return err
}

// SessionExpiredError creates a session expired error
func SessionExpiredError() *CLIError {
	err := NewCLIError(ErrorTypeSessionExpired, "Your session has expired", nil)
	err.Suggestion = "Run 'ansnips auth login' to refresh your session."
	return err
}

// UnauthorizedError creates an unauthorized error
func UnauthorizedError() *CLIError {
	err := NewCLIError(ErrorTypeUnauthorized, "You don't have permission to perform this action", nil)
	err.Suggestion = "Make sure you're logged in with the account that owns this content."
	return err
}

// ForbiddenError creates a forbidden error
func ForbiddenError() *CLIError {
	err := NewCLIError(ErrorTypeForbidden, "Access denied", nil)
	err.Suggestion = "The backend rules do not allow this action for your account."
	return err
}

// ValidationError creates a validation error
func ValidationError(field, reason string) *CLIError {
	message := fmt.Sprintf("Validation error: %s %s", field, reason)
	return NewCLIError(ErrorTypeValidation, message, nil)
}

// FileNotFoundError creates a file not found error
func FileNotFoundError(path string) *CLIError {
	err := NewCLIError(ErrorTypeFileNotFound, fmt.Sprintf("File not found: %s", path), nil)
	err.Suggestion = "Check the file path and try again."
	return err
}

// MediaFormatError creates an unsupported media error
func MediaFormatError(kind, format string) *CLIError {
	err := NewCLIError(ErrorTypeInvalidFormat, fmt.Sprintf("Unsupported %s format: %s", kind, format), nil)
	if kind == "video" {
		err.Suggestion = "Supported formats: mp4, mov, webm, m4v."
	} else {
		err.Suggestion = "Supported formats: jpg, jpeg, png, gif, webp."
	}
	return err
}

// ReelTooLongError is returned when the CDN reports a video over the limit
func ReelTooLongError() *CLIError {
	err := NewCLIError(ErrorTypeMedia, "Reels can be at most 90 seconds long", nil)
	err.Suggestion = "Trim your video and upload it again."
	return err
}

// CDNNotConfiguredError is returned when reel uploads are attempted without CDN settings
func CDNNotConfiguredError() *CLIError {
	err := NewCLIError(ErrorTypeMediaCDN, "Video uploads are not configured", nil)
	err.Suggestion = "Set cdn.cloud_name and cdn.api_key/cdn.api_secret (or cdn.upload_preset) with 'ansnips config set'."
	return err
}

// OwnershipError is returned when editing someone else's content
func OwnershipError(message string) *CLIError {
	return NewCLIError(ErrorTypeOwnership, message, nil)
}

// BusyError is returned when the same action is still being saved
func BusyError() *CLIError {
	err := NewCLIError(ErrorTypeBusy, "Still saving your previous change", nil)
	err.Suggestion = "Wait for it to finish and try again."
	return err
}

// ServerError creates a server error
func ServerError() *CLIError {
	err := NewCLIError(ErrorTypeServer, "Server error", nil)
	err.Suggestion = "The server encountered an error. Try again in a few moments."
	return err
}

// NotFoundError creates a not found error
func NotFoundError(resourceType, identifier string) *CLIError {
	return NewCLIError(ErrorTypeNotFound,
		fmt.Sprintf("%s not found: %s", resourceType, identifier),
		nil)
}

// RateLimitError creates a rate limit error
func RateLimitError(retryAfter int) *CLIError {
	err := NewCLIError(ErrorTypeRateLimit,
		"Rate limit exceeded. Too many requests.",
		nil)
	err.RetryAfter = retryAfter
	err.Suggestion = fmt.Sprintf("Please wait %d seconds before trying again.", retryAfter)
	return err
}

// ConflictError creates a conflict error
func ConflictError(message string) *CLIError {
	err := NewCLIError(ErrorTypeConflict, message, nil)
	err.Suggestion = "This resource already exists. Try a different name or identifier."
	return err
}

// CategorizeError converts a standard error into a CLIError
func CategorizeError(err error) *CLIError {
	if err == nil {
		return nil
	}

	// Check if it's already a CLIError
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	if categorized := categorizeKnown(err); categorized != nil {
		if categorized.Cause == nil {
			categorized.Cause = err
		}
		return categorized
	}

	// Fall back to the error text
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "connection refused"):
		return NetworkError("Could not connect to the backend. Check the endpoint.")
	case strings.Contains(errMsg, "no such host"):
		return NetworkError("Could not resolve the backend host.")
	case strings.Contains(errMsg, "timeout"):
		return TimeoutError()
	case strings.Contains(errMsg, "context deadline exceeded"):
		return TimeoutError()
	default:
		return NewCLIError(ErrorTypeUnknown, errMsg, err)
	}
}

func categorizeKnown(err error) *CLIError {
	var verr *api.ValidationError
	if errors.As(err, &verr) {
		if strings.HasPrefix(verr.Reason, "not found") {
			return FileNotFoundError(strings.TrimSpace(strings.TrimPrefix(verr.Reason, "not found:")))
		}
		if strings.HasPrefix(verr.Reason, "has unsupported format") && (verr.Field == "image" || verr.Field == "video") {
			return MediaFormatError(verr.Field, strings.Trim(strings.TrimPrefix(verr.Reason, "has unsupported format "), `"`))
		}
		return ValidationError(verr.Field, verr.Reason)
	}

	switch {
	case errors.Is(err, api.ErrNotLoggedIn):
		return NotLoggedInError()
	case errors.Is(err, api.ErrNotOwner):
		return OwnershipError("You can only change your own content")
	case errors.Is(err, api.ErrNotParticipant):
		return OwnershipError("You are not part of this conversation")
	case errors.Is(err, api.ErrSelfFollow):
		return NewCLIError(ErrorTypeValidation, "You cannot follow yourself", nil)
	case errors.Is(err, api.ErrSelfChat):
		return NewCLIError(ErrorTypeValidation, "You cannot start a chat with yourself", nil)
	case errors.Is(err, api.ErrUsernameTaken):
		return ConflictError("That username is already taken").WithSuggestion("Pick a different username.")
	case errors.Is(err, api.ErrReelTooLong):
		return ReelTooLongError()
	case errors.Is(err, optimistic.ErrInFlight):
		return BusyError()
	case errors.Is(err, cdn.ErrNotConfigured):
		return CDNNotConfiguredError()
	case errors.Is(err, context.DeadlineExceeded):
		return TimeoutError()
	case errors.Is(err, context.Canceled):
		return NewCLIError(ErrorTypeUnknown, "Cancelled", nil)
	case errors.Is(err, syscall.ECONNREFUSED):
		return NetworkError("Could not connect to the backend. Check the endpoint.")
	}

	var apiErr *baas.Error
	if errors.As(err, &apiErr) {
		return fromStatus(apiErr.StatusCode, apiErr.Type, apiErr.Message)
	}

	var cdnErr *cdn.Error
	if errors.As(err, &cdnErr) {
		e := fromStatus(cdnErr.StatusCode, "", cdnErr.Message)
		if e.Type == ErrorTypeUnknown || e.Type == ErrorTypeValidation {
			e.Type = ErrorTypeMediaCDN
			e.Message = "Video service error: " + cdnErr.Message
		}
		return e
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return TimeoutError()
		}
		return NetworkError("Could not reach the backend.")
	}

	return nil
}

// fromStatus maps a backend status code to a CLIError
func fromStatus(status int, errType, message string) *CLIError {
	var e *CLIError
	switch {
	case status == 401:
		if strings.Contains(errType, "session") || strings.Contains(errType, "jwt") {
			e = SessionExpiredError()
		} else if errType == "user_invalid_credentials" {
			e = AuthError("Invalid email or password")
		} else {
			e = AuthError(nonEmpty(message, "Not authorized"))
		}
	case status == 403:
		e = ForbiddenError()
	case status == 404:
		e = NewCLIError(ErrorTypeNotFound, nonEmpty(message, "Not found"), nil)
	case status == 409:
		e = ConflictError(nonEmpty(message, "Already exists"))
	case status == 429:
		e = RateLimitError(60)
	case status >= 500:
		e = ServerError()
	case status == 400:
		e = NewCLIError(ErrorTypeValidation, nonEmpty(message, "Invalid request"), nil)
	default:
		e = NewCLIError(ErrorTypeUnknown, nonEmpty(message, "Request failed"), nil)
	}
	e.StatusCode = status
	return e
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Message is the one-line form of an error for toast-style output
func Message(err error) string {
	if err == nil {
		return ""
	}
	return CategorizeError(err).Message
}

// FormatError returns a user-friendly error message
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	cliErr := CategorizeError(err)
	var sb strings.Builder

	// Format the main error message
	sb.WriteString("❌ Error")
	if cliErr.Type != ErrorTypeUnknown {
		sb.WriteString(" (")
		sb.WriteString(string(cliErr.Type))
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(cliErr.Message)
	sb.WriteString("\n")

	// Add suggestion if available
	if cliErr.HasSuggestion() {
		sb.WriteString("\n💡 Suggestion: ")
		sb.WriteString(cliErr.Suggestion)
		sb.WriteString("\n")
	}

	// Add retry info for rate limiting
	if cliErr.Type == ErrorTypeRateLimit && cliErr.RetryAfter > 0 {
		sb.WriteString("\n⏱️  Retry in: ")
		sb.WriteString(fmt.Sprintf("%d seconds\n", cliErr.RetryAfter))
	}

	return sb.String()
}
