package credentials

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) {
	t.Helper()
	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "config.toml")))
}

func token(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-side"))
	require.NoError(t, err)
	return s
}

func TestLoad_Missing(t *testing.T) {
	setup(t)
	creds, err := Load()
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestSaveLoadDelete(t *testing.T) {
	setup(t)
	in := &Credentials{
		SessionID: "s1",
		Secret:    "secret",
		UserID:    "u1",
		Username:  "ana",
		ExpiresAt: time.Now().Add(time.Hour).Truncate(time.Second),
	}
	require.NoError(t, Save(in))

	info, err := os.Stat(config.GetCredentialsPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	out, err := Load()
	require.NoError(t, err)
	assert.Equal(t, in.UserID, out.UserID)
	assert.True(t, in.ExpiresAt.Equal(out.ExpiresAt))
	assert.True(t, out.IsValid())

	require.NoError(t, Delete())
	require.NoError(t, Delete())
	out, err = Load()
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestLoad_Corrupt(t *testing.T) {
	setup(t)
	require.NoError(t, os.WriteFile(config.GetCredentialsPath(), []byte("{not json"), 0600))
	_, err := Load()
	assert.Error(t, err)
}

func TestIsValid(t *testing.T) {
	assert.False(t, (&Credentials{}).IsValid())
	assert.False(t, (&Credentials{Secret: "s", UserID: "u", ExpiresAt: time.Now().Add(-time.Minute)}).IsValid())
	assert.True(t, (&Credentials{Secret: "s", UserID: "u"}).IsValid())
}

func TestParseJWT(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	tok := token(t, jwt.MapClaims{"userId": "u1", "sessionId": "s1", "exp": exp.Unix()})

	claims, err := ParseJWT(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "s1", claims.SessionID)
	assert.True(t, exp.Equal(claims.ExpiresAt))
}

func TestParseJWT_Malformed(t *testing.T) {
	_, err := ParseJWT("not-a-token")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestSetJWT(t *testing.T) {
	c := &Credentials{UserID: "u1"}
	tok := token(t, jwt.MapClaims{"userId": "u1", "exp": time.Now().Add(time.Minute).Unix()})
	_, err := c.SetJWT(tok)
	require.NoError(t, err)
	assert.True(t, c.HasJWT())

	other := token(t, jwt.MapClaims{"userId": "u2", "exp": time.Now().Add(time.Minute).Unix()})
	_, err = c.SetJWT(other)
	assert.Error(t, err)
	assert.Equal(t, tok, c.JWT)
}
