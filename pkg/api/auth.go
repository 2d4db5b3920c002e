package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/logger"
)

// SignUpRequest holds what a new account needs
type SignUpRequest struct {
	Email    string
	Password string
	Name     string
	Username string
}

// Validate checks every field before any request is made
func (r *SignUpRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	r.Username = strings.ToLower(strings.TrimSpace(r.Username))

	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if err := ValidatePassword(r.Password); err != nil {
		return err
	}
	if err := ValidateName(r.Name); err != nil {
		return err
	}
	return ValidateUsername(r.Username)
}

// AuthResult is a signed-in session and its profile
type AuthResult struct {
	Session *baas.Session
	Account *baas.User
	Profile *UserInfo
}

// SignUp creates the account, signs in and creates the public profile
func (a *API) SignUp(ctx context.Context, req SignUpRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if existing, err := a.users.First(ctx, baas.Equal("username", req.Username)); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUsernameTaken
	}

	account, err := a.account.Create(ctx, "", req.Email, req.Password, req.Name)
	if err != nil {
		return nil, err
	}

	session, err := a.account.CreateEmailSession(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	a.SetUser(account.ID)

	data := map[string]interface{}{
		"userId":    account.ID,
		"username":  req.Username,
		"name":      req.Name,
		"bio":       "",
		"avatarUrl": "",
		"avatarId":  "",
		"followers": []string{},
		"following": []string{},
	}
	// Other users append to followers, so signed-in users may update.
	perms := []string{baas.ReadAny(), baas.UpdateUsers(), baas.DeleteUser(account.ID)}
	profile, err := a.users.Create(ctx, account.ID, data, perms)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	logger.Info("Account created", "user_id", account.ID, "username", req.Username)
	return &AuthResult{Session: session, Account: account, Profile: profile}, nil
}

// Login signs in with email and password
func (a *API) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, invalid("credentials", "email and password are required")
	}

	session, err := a.account.CreateEmailSession(ctx, email, password)
	if err != nil {
		return nil, err
	}

	account, err := a.account.Get(ctx)
	if err != nil {
		return nil, err
	}
	a.SetUser(account.ID)

	profile, err := a.GetUser(ctx, account.ID)
	if err != nil && !baas.IsNotFound(err) {
		return nil, err
	}

	return &AuthResult{Session: session, Account: account, Profile: profile}, nil
}

// Resume reuses a stored session secret
func (a *API) Resume(secret, userID string) {
	a.baas.SetSession(secret)
	a.SetUser(userID)
}

// Logout ends the current session
func (a *API) Logout(ctx context.Context) error {
	err := a.account.DeleteSession(ctx, "current")
	a.baas.ClearAuth()
	a.SetUser("")
	if err != nil && !baas.IsUnauthorized(err) {
		return err
	}
	return nil
}

// CurrentAccount returns the signed-in account
func (a *API) CurrentAccount(ctx context.Context) (*baas.User, error) {
	if _, err := a.me(); err != nil {
		return nil, err
	}
	return a.account.Get(ctx)
}

// CreateJWT issues a short lived token for the current session
func (a *API) CreateJWT(ctx context.Context) (string, error) {
	if _, err := a.me(); err != nil {
		return "", err
	}
	return a.account.CreateJWT(ctx)
}

// ChangePassword updates the account password
func (a *API) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if _, err := a.me(); err != nil {
		return err
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	return a.account.UpdatePassword(ctx, newPassword, oldPassword)
}
