package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/client"
	"github.com/ahmednagradev/ansnips/pkg/credentials"
	"github.com/ahmednagradev/ansnips/pkg/formatter"
	"github.com/ahmednagradev/ansnips/pkg/logger"
	"github.com/ahmednagradev/ansnips/pkg/output"
	"github.com/ahmednagradev/ansnips/pkg/prompter"
)

// AuthService handles sign-up, sign-in and the stored session
type AuthService struct {
	api *api.API
}

// NewAuthService creates a new auth service
func NewAuthService(a *api.API) *AuthService {
	return &AuthService{api: a}
}

// SignUp prompts for any missing field, creates the account and stores the
// session
func (s *AuthService) SignUp(ctx context.Context, req api.SignUpRequest) error {
	var err error
	if req.Email == "" {
		if req.Email, err = prompter.PromptString("Email: "); err != nil {
			return err
		}
	}
	if req.Name == "" {
		if req.Name, err = prompter.PromptString("Name: "); err != nil {
			return err
		}
	}
	if req.Username == "" {
		if req.Username, err = prompter.PromptString("Username: "); err != nil {
			return err
		}
	}
	if req.Password == "" {
		if req.Password, err = prompter.PromptPassword("Password: "); err != nil {
			return err
		}
		again, err := prompter.PromptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if again != req.Password {
			return fmt.Errorf("passwords do not match")
		}
	}

	// Validate before any request is made.
	if err := req.Validate(); err != nil {
		return err
	}

	output.PrintInfo("Creating account...")
	res, err := s.api.SignUp(ctx, req)
	if err != nil {
		return fmt.Errorf("sign up failed: %w", err)
	}
	if err := client.SaveSession(res); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	output.PrintSuccess("✓ Welcome to ansnips, %s!", formatter.Bold.Sprint("@"+res.Profile.Username))
	return nil
}

// Login prompts for credentials and stores the new session
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	creds, err := credentials.Load()
	if err != nil {
		logger.Warn("Failed to load credentials", "error", err)
	}
	if creds != nil && creds.IsValid() && email == "" {
		output.PrintWarning("Already logged in as @%s", creds.Username)
		ok, err := prompter.PromptConfirm("Continue with new login?")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	if email == "" {
		if email, err = prompter.PromptString("Email: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = prompter.PromptPassword("Password: "); err != nil {
			return err
		}
	}

	output.PrintInfo("Authenticating...")
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := client.SaveSession(res); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	name := res.Account.Email
	if res.Profile != nil {
		name = "@" + res.Profile.Username
	}
	output.PrintSuccess("✓ Logged in as %s", formatter.Bold.Sprint(name))
	return nil
}

// Logout ends the session on the BaaS and forgets it locally
func (s *AuthService) Logout(ctx context.Context) error {
	if s.api.UserID() == "" {
		output.PrintInfo("Not logged in.")
		return client.ClearSession()
	}
	if err := s.api.Logout(ctx); err != nil {
		logger.Warn("Remote logout failed", "error", err)
	}
	if err := client.ClearSession(); err != nil {
		return fmt.Errorf("failed to remove credentials: %w", err)
	}
	output.PrintSuccess("✓ Logged out")
	return nil
}

// WhoAmI prints the signed-in account and profile
func (s *AuthService) WhoAmI(ctx context.Context) error {
	account, err := s.api.CurrentAccount(ctx)
	if err != nil {
		return err
	}
	profile, err := s.api.Me(ctx)
	if err != nil {
		return err
	}

	record := map[string]interface{}{
		"ID":        account.ID,
		"Email":     account.Email,
		"Username":  "@" + profile.Username,
		"Name":      profile.Name,
		"Followers": len(profile.Followers),
		"Following": len(profile.Following),
	}
	if creds, err := credentials.Load(); err == nil && creds != nil && !creds.ExpiresAt.IsZero() {
		record["Session expires"] = creds.ExpiresAt.Local().Format(time.RFC1123)
	}
	return output.PrintRecord("Account", record)
}

// Token issues a short lived JWT for the session, stores it and prints it
func (s *AuthService) Token(ctx context.Context) error {
	token, err := s.api.CreateJWT(ctx)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	creds, err := credentials.Load()
	if err != nil || creds == nil {
		return fmt.Errorf("no stored session")
	}
	claims, err := creds.SetJWT(token)
	if err != nil {
		return err
	}
	if err := credentials.Save(creds); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	if output.IsJSON() {
		return output.Print("token", map[string]interface{}{"jwt": token, "expires_at": claims.ExpiresAt})
	}
	printf("%s\n", token)
	if !claims.ExpiresAt.IsZero() {
		formatter.Faint.Fprintf(output.Stdout(), "Expires %s\n", claims.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

// ChangePassword prompts for the current and new password
func (s *AuthService) ChangePassword(ctx context.Context) error {
	old, err := prompter.PromptPassword("Current password: ")
	if err != nil {
		return err
	}
	next, err := prompter.PromptPassword("New password: ")
	if err != nil {
		return err
	}
	if err := s.api.ChangePassword(ctx, old, next); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	output.PrintSuccess("✓ Password changed")
	return nil
}
