package baas

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
)

// Error is an error response returned by the BaaS
type Error struct {
	Message    string `json:"message"`
	Code       int    `json:"code"`
	Type       string `json:"type"`
	StatusCode int    `json:"-"`
}

func (e *Error) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("[%d] %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
}

// ParseError parses an error response from the BaaS
func ParseError(resp *resty.Response) error {
	statusCode := resp.StatusCode()

	var apiErr Error
	if err := json.Unmarshal(resp.Body(), &apiErr); err == nil && apiErr.Message != "" {
		apiErr.StatusCode = statusCode
		return &apiErr
	}

	msg := string(resp.Body())
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	return &Error{
		Message:    msg,
		Code:       statusCode,
		Type:       "unknown_error",
		StatusCode: statusCode,
	}
}

// CheckResponse checks if response is successful and returns error if not
func CheckResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}

	if !resp.IsSuccess() {
		return ParseError(resp)
	}

	return nil
}

func statusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized checks if error is due to missing/invalid authentication
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

// IsForbidden checks if error is due to insufficient permissions
func IsForbidden(err error) bool {
	return statusOf(err) == http.StatusForbidden
}

// IsNotFound checks if error is due to resource not found
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsConflict checks if the resource already exists
func IsConflict(err error) bool {
	return statusOf(err) == http.StatusConflict
}

// IsRateLimited checks if the project rate limit was hit
func IsRateLimited(err error) bool {
	return statusOf(err) == http.StatusTooManyRequests
}

// IsServerError checks if error is due to server error (5xx)
func IsServerError(err error) bool {
	return statusOf(err) >= 500
}

func decode(body []byte, target interface{}) error {
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
