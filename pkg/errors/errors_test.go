package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/cdn"
	"github.com/ahmednagradev/ansnips/pkg/optimistic"
)

// TestNewCLIError creates and validates a CLI error
func TestNewCLIError(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewCLIError(ErrorTypeValidation, "Test error", cause)

	if err.Type != ErrorTypeValidation {
		t.Errorf("Expected type %s, got %s", ErrorTypeValidation, err.Type)
	}
	if err.Message != "Test error" {
		t.Errorf("Expected message 'Test error', got '%s'", err.Message)
	}
	if !errors.Is(err, cause) {
		t.Error("Cause not reachable through Unwrap")
	}
}

// TestWithSuggestion adds suggestion to error
func TestWithSuggestion(t *testing.T) {
	err := NewCLIError(ErrorTypeValidation, "Test", nil).WithSuggestion("Try something else")

	if !err.HasSuggestion() {
		t.Error("HasSuggestion returned false")
	}
	if err.Suggestion != "Try something else" {
		t.Errorf("Unexpected suggestion '%s'", err.Suggestion)
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"unauthorized", &baas.Error{StatusCode: 401, Type: "general_unauthorized_scope", Message: "missing scope"}, ErrorTypeAuth},
		{"session", &baas.Error{StatusCode: 401, Type: "user_session_not_found"}, ErrorTypeSessionExpired},
		{"forbidden", &baas.Error{StatusCode: 403}, ErrorTypeForbidden},
		{"not found", fmt.Errorf("get posts document p1: %w", &baas.Error{StatusCode: 404, Message: "Document not found"}), ErrorTypeNotFound},
		{"conflict", &baas.Error{StatusCode: 409, Message: "exists"}, ErrorTypeConflict},
		{"rate limit", &baas.Error{StatusCode: 429}, ErrorTypeRateLimit},
		{"server", &baas.Error{StatusCode: 502}, ErrorTypeServer},
		{"bad request", &baas.Error{StatusCode: 400, Message: "Invalid query"}, ErrorTypeValidation},
		{"cdn", &cdn.Error{StatusCode: 400, Message: "Invalid signature"}, ErrorTypeMediaCDN},
		{"cdn server", &cdn.Error{StatusCode: 500, Message: "boom"}, ErrorTypeServer},
		{"cdn config", cdn.ErrNotConfigured, ErrorTypeMediaCDN},
		{"validation", &api.ValidationError{Field: "caption", Reason: "must be at most 2200 characters"}, ErrorTypeValidation},
		{"missing file", &api.ValidationError{Field: "image", Reason: "not found: /tmp/x.png"}, ErrorTypeFileNotFound},
		{"bad format", &api.ValidationError{Field: "video", Reason: `has unsupported format ".avi"`}, ErrorTypeInvalidFormat},
		{"not logged in", api.ErrNotLoggedIn, ErrorTypeAuth},
		{"not owner", fmt.Errorf("delete: %w", api.ErrNotOwner), ErrorTypeOwnership},
		{"in flight", optimistic.ErrInFlight, ErrorTypeBusy},
		{"reel", api.ErrReelTooLong, ErrorTypeMedia},
		{"deadline", context.DeadlineExceeded, ErrorTypeTimeout},
		{"refused", errors.New("dial tcp 127.0.0.1:80: connect: connection refused"), ErrorTypeNetwork},
		{"other", errors.New("something odd"), ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategorizeError(tt.err)
			if got.Type != tt.want {
				t.Errorf("CategorizeError(%v) = %s, want %s", tt.err, got.Type, tt.want)
			}
		})
	}
}

func TestCategorizeError_KeepsStatus(t *testing.T) {
	got := CategorizeError(&baas.Error{StatusCode: 404, Message: "User not found"})
	if got.StatusCode != 404 {
		t.Errorf("Expected status 404, got %d", got.StatusCode)
	}
	if got.Message != "User not found" {
		t.Errorf("Unexpected message '%s'", got.Message)
	}
}

func TestCategorizeError_Nil(t *testing.T) {
	if CategorizeError(nil) != nil {
		t.Error("Expected nil for nil error")
	}
	if FormatError(nil) != "" {
		t.Error("Expected empty string for nil error")
	}
}

func TestFormatError(t *testing.T) {
	out := FormatError(&baas.Error{StatusCode: 429})

	if !strings.Contains(out, "rate_limit") {
		t.Errorf("Expected type in output, got %q", out)
	}
	if !strings.Contains(out, "Suggestion") {
		t.Errorf("Expected suggestion in output, got %q", out)
	}
	if !strings.Contains(out, "60 seconds") {
		t.Errorf("Expected retry hint in output, got %q", out)
	}
}

func TestMessage(t *testing.T) {
	if got := Message(api.ErrUsernameTaken); got != "That username is already taken" {
		t.Errorf("Unexpected message %q", got)
	}
	if got := Message(nil); got != "" {
		t.Errorf("Expected empty message, got %q", got)
	}
}
