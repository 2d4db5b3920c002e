package credentials

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	json "github.com/json-iterator/go"
)

// Credentials is the stored BaaS session of the signed-in user
type Credentials struct {
	SessionID    string    `json:"session_id"`
	Secret       string    `json:"secret"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	JWT          string    `json:"jwt,omitempty"`
	JWTExpiresAt time.Time `json:"jwt_expires_at,omitempty"`
}

// Load loads credentials from disk. It returns nil, nil when none are stored.
func Load() (*Credentials, error) {
	path := config.GetCredentialsPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("corrupt credentials file %s: %w", path, err)
	}

	return &creds, nil
}

// Save saves credentials to disk
func Save(creds *Credentials) error {
	path := config.GetCredentialsPath()

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}

	// owner read/write only
	return os.WriteFile(path, data, 0600)
}

// Delete deletes credentials from disk. Missing credentials are not an error.
func Delete() error {
	err := os.Remove(config.GetCredentialsPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsExpired checks if the session is expired
func (c *Credentials) IsExpired() bool {
	return !c.ExpiresAt.IsZero() && time.Now().After(c.ExpiresAt)
}

// IsValid checks if credentials are valid
func (c *Credentials) IsValid() bool {
	return c.Secret != "" && c.UserID != "" && !c.IsExpired()
}

// HasJWT reports whether a stored JWT is still usable
func (c *Credentials) HasJWT() bool {
	return c.JWT != "" && time.Now().Before(c.JWTExpiresAt)
}

// Claims are the fields ansnips reads from a BaaS-issued JWT
type Claims struct {
	UserID    string
	SessionID string
	ExpiresAt time.Time
}

// ErrMalformedToken is returned for tokens that are not JWTs
var ErrMalformedToken = errors.New("malformed token")

// ParseJWT reads the claims of a BaaS JWT without verifying it. The token is
// only ever checked by the BaaS, the CLI just needs its expiry.
func ParseJWT(token string) (*Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	out := &Claims{}
	out.UserID, _ = claims["userId"].(string)
	out.SessionID, _ = claims["sessionId"].(string)
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// SetJWT stores token along with its expiry
func (c *Credentials) SetJWT(token string) (*Claims, error) {
	claims, err := ParseJWT(token)
	if err != nil {
		return nil, err
	}
	if claims.UserID != "" && c.UserID != "" && claims.UserID != c.UserID {
		return nil, fmt.Errorf("token belongs to another user")
	}
	c.JWT = token
	c.JWTExpiresAt = claims.ExpiresAt
	return claims, nil
}
