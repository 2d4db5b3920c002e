package baas

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/logger"
)

// User is a BaaS account
type User struct {
	ID                string    `json:"$id"`
	CreatedAt         time.Time `json:"$createdAt"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	EmailVerification bool      `json:"emailVerification"`
	Status            bool      `json:"status"`
}

// Session is an authenticated account session
type Session struct {
	ID       string    `json:"$id"`
	UserID   string    `json:"userId"`
	Secret   string    `json:"secret"`
	Expire   time.Time `json:"expire"`
	Provider string    `json:"provider"`
	Current  bool      `json:"current"`
}

// Account groups the account endpoints for the signed-in user
type Account struct {
	client *Client
}

// NewAccount returns the account service for client
func NewAccount(client *Client) *Account {
	return &Account{client: client}
}

// Create registers a new account. An empty userID lets the client pick one.
func (a *Account) Create(ctx context.Context, userID, email, password, name string) (*User, error) {
	if userID == "" {
		userID = UniqueID()
	}
	logger.Debug("Creating account", "email", email)

	body := map[string]string{
		"userId":   userID,
		"email":    email,
		"password": password,
		"name":     name,
	}

	var user User
	if _, err := a.client.call(ctx, http.MethodPost, "/account", body, &user); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &user, nil
}

// CreateEmailSession signs in with email and password. The returned session
// secret is installed on the client for subsequent requests.
func (a *Account) CreateEmailSession(ctx context.Context, email, password string) (*Session, error) {
	logger.Debug("Creating session", "email", email)

	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var session Session
	resp, err := a.client.call(ctx, http.MethodPost, "/account/sessions/email", body, &session)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	// Without an API key the secret only comes back as a cookie.
	if session.Secret == "" && resp != nil {
		cookieName := "a_session_" + a.client.config.Project
		for _, c := range resp.Cookies() {
			if c.Name == cookieName {
				session.Secret = c.Value
				break
			}
		}
	}

	a.client.SetSession(session.Secret)
	return &session, nil
}

// Get returns the signed-in account
func (a *Account) Get(ctx context.Context) (*User, error) {
	var user User
	if _, err := a.client.call(ctx, http.MethodGet, "/account", nil, &user); err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &user, nil
}

// DeleteSession signs out. Use "current" for the session in use.
func (a *Account) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := a.client.call(ctx, http.MethodDelete, "/account/sessions/"+sessionID, nil, nil); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if sessionID == "current" {
		a.client.ClearAuth()
	}
	return nil
}

// CreateJWT issues a short lived token for the current session
func (a *Account) CreateJWT(ctx context.Context) (string, error) {
	var result struct {
		JWT string `json:"jwt"`
	}
	if _, err := a.client.call(ctx, http.MethodPost, "/account/jwt", nil, &result); err != nil {
		return "", fmt.Errorf("create jwt: %w", err)
	}
	return result.JWT, nil
}

// UpdateName changes the account display name
func (a *Account) UpdateName(ctx context.Context, name string) (*User, error) {
	var user User
	if _, err := a.client.call(ctx, http.MethodPatch, "/account/name", map[string]string{"name": name}, &user); err != nil {
		return nil, fmt.Errorf("update name: %w", err)
	}
	return &user, nil
}

// UpdatePassword changes the account password
func (a *Account) UpdatePassword(ctx context.Context, password, oldPassword string) error {
	body := map[string]string{
		"password":    password,
		"oldPassword": oldPassword,
	}
	if _, err := a.client.call(ctx, http.MethodPatch, "/account/password", body, nil); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
