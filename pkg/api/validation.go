package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field limits checked before anything is sent to the BaaS
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MaxNameLength     = 50
	MaxBioLength      = 150
	MaxCaptionLength  = 2200
	MaxCommentLength  = 1000
	MaxMessageLength  = 1000
	MaxTags           = 30
	MinPasswordLength = 8

	MaxImageBytes   = 10 << 20
	MaxVideoBytes   = 100 << 20
	MaxReelDuration = 90.0 // seconds
)

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9._]+$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}
	videoExtensions = map[string]bool{".mp4": true, ".mov": true, ".webm": true, ".m4v": true}
)

// ValidationError reports a rejected input field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is a *ValidationError
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ValidateUsername checks length and charset
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return invalid("username", "must be %d-%d characters", MinUsernameLength, MaxUsernameLength)
	}
	if !usernamePattern.MatchString(username) {
		return invalid("username", "may only contain lowercase letters, numbers, '.' and '_'")
	}
	return nil
}

// ValidateEmail does a shape check only; the BaaS has the final word
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return invalid("email", "is not a valid address")
	}
	return nil
}

// ValidatePassword enforces the minimum length
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return invalid("password", "must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidateName checks the display name
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name", "is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return invalid("name", "must be at most %d characters", MaxNameLength)
	}
	return nil
}

// ValidateBio checks the profile bio
func ValidateBio(bio string) error {
	if utf8.RuneCountInString(bio) > MaxBioLength {
		return invalid("bio", "must be at most %d characters", MaxBioLength)
	}
	return nil
}

// ValidateCaption checks a post or reel caption
func ValidateCaption(caption string) error {
	if utf8.RuneCountInString(caption) > MaxCaptionLength {
		return invalid("caption", "must be at most %d characters", MaxCaptionLength)
	}
	return nil
}

// ValidateTags checks the tag list
func ValidateTags(tags []string) error {
	if len(tags) > MaxTags {
		return invalid("tags", "must have at most %d entries", MaxTags)
	}
	return nil
}

func validateText(field, text string, max int) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", invalid(field, "cannot be empty")
	}
	if utf8.RuneCountInString(text) > max {
		return "", invalid(field, "exceeds %d character limit", max)
	}
	return text, nil
}

// ValidateCommentText trims and checks a comment body
func ValidateCommentText(text string) (string, error) {
	return validateText("comment", text, MaxCommentLength)
}

// ValidateMessageText trims and checks a chat message
func ValidateMessageText(text string) (string, error) {
	return validateText("message", text, MaxMessageLength)
}

func validateFile(field, path string, allowed map[string]bool, maxBytes int64) error {
	if path == "" {
		return invalid(field, "is required")
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !allowed[ext] {
		return invalid(field, "has unsupported format %q", ext)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return invalid(field, "not found: %s", path)
		}
		return err
	}
	if info.IsDir() {
		return invalid(field, "is a directory: %s", path)
	}
	if info.Size() > maxBytes {
		return invalid(field, "is too large: %.1f MB (max %d MB)", float64(info.Size())/(1<<20), maxBytes>>20)
	}
	return nil
}

// ValidateImageFile checks an image upload
func ValidateImageFile(path string) error {
	return validateFile("image", path, imageExtensions, MaxImageBytes)
}

// ValidateVideoFile checks a reel upload
func ValidateVideoFile(path string) error {
	return validateFile("video", path, videoExtensions, MaxVideoBytes)
}

// ValidateContentType checks the target kind of a like, save or comment
func ValidateContentType(contentType string, allowComment bool) error {
	switch contentType {
	case ContentPost, ContentReel:
		return nil
	case ContentComment:
		if allowComment {
			return nil
		}
	}
	return invalid("content type", "%q is not supported here", contentType)
}
