package service

import (
	"context"
	"testing"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_SignUpPromptsAndStoresSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.input("ana@example.com", "Ana", "ana", "password1", "password1")

	require.NoError(t, NewAuthService(env.api).SignUp(ctx, api.SignUpRequest{}))
	assert.Contains(t, env.out.String(), "Welcome to ansnips")

	creds, err := credentials.Load()
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.Equal(t, "ana", creds.Username)
	assert.Equal(t, env.api.UserID(), creds.UserID)
	assert.NotEmpty(t, creds.Secret)
}

func TestAuth_SignUpPasswordMismatch(t *testing.T) {
	env := newTestEnv(t)
	env.input("password1", "password2")

	err := NewAuthService(env.api).SignUp(context.Background(), api.SignUpRequest{Email: "a@b.co", Name: "A", Username: "abc"})
	assert.Error(t, err)
	assert.Equal(t, 0, env.baas.Count("users"))
}

func TestAuth_SignUpValidatesBeforeRequest(t *testing.T) {
	env := newTestEnv(t)
	err := NewAuthService(env.api).SignUp(context.Background(), api.SignUpRequest{
		Email: "not-an-email", Name: "A", Username: "abc", Password: "password1",
	})
	assert.True(t, api.IsValidationError(err))
}

func TestAuth_LoginWhoAmILogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewAuthService(env.api)

	_, err := env.api.SignUp(ctx, api.SignUpRequest{Email: "ana@example.com", Password: "password1", Name: "Ana", Username: "ana"})
	require.NoError(t, err)
	require.NoError(t, env.api.Logout(ctx))

	require.NoError(t, svc.Login(ctx, "ana@example.com", "password1"))
	assert.Contains(t, env.out.String(), "Logged in as @ana")

	env.out.Reset()
	require.NoError(t, svc.WhoAmI(ctx))
	assert.Contains(t, env.out.String(), "ana@example.com")

	require.NoError(t, svc.Token(ctx))
	creds, err := credentials.Load()
	require.NoError(t, err)
	assert.True(t, creds.HasJWT())

	require.NoError(t, svc.Logout(ctx))
	creds, err = credentials.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)
	assert.Equal(t, "", env.api.UserID())
}

func TestAuth_LoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.api.SignUp(ctx, api.SignUpRequest{Email: "ana@example.com", Password: "password1", Name: "Ana", Username: "ana"})
	require.NoError(t, err)
	require.NoError(t, env.api.Logout(ctx))

	err = NewAuthService(env.api).Login(ctx, "ana@example.com", "wrong-password")
	assert.Error(t, err)
	creds, _ := credentials.Load()
	assert.Nil(t, creds)
}

func TestAuth_WhoAmISignedOut(t *testing.T) {
	env := newTestEnv(t)
	err := NewAuthService(env.api).WhoAmI(context.Background())
	assert.ErrorIs(t, err, api.ErrNotLoggedIn)
}
