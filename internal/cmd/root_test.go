package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ahmednagradev/ansnips/internal/fakebaas"
	"github.com/ahmednagradev/ansnips/pkg/client"
	"github.com/ahmednagradev/ansnips/pkg/output"
	"github.com/ahmednagradev/ansnips/pkg/prompter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliEnv struct {
	t      *testing.T
	config string
	out    *bytes.Buffer
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()

	srv := httptest.NewServer(fakebaas.New())
	t.Cleanup(srv.Close)
	cdnSrv := httptest.NewServer(fakebaas.NewCDN(12))
	t.Cleanup(cdnSrv.Close)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	toml := fmt.Sprintf(`[baas]
endpoint = "%s/v1"
project = "proj"
timeout = 5

[cdn]
base_url = "%s"
cloud_name = "demo"
api_key = "key"
api_secret = "secret"

[log]
file = "%s"
`, srv.URL, cdnSrv.URL, filepath.Join(dir, "ansnips.log"))
	require.NoError(t, os.WriteFile(path, []byte(toml), 0o600))

	var out bytes.Buffer
	output.SetWriters(&out, &out)
	prompter.SetIO(strings.NewReader(""), &out)
	client.Set(nil)
	t.Cleanup(func() {
		client.Set(nil)
		output.SetWriters(os.Stdout, os.Stderr)
	})

	return &cliEnv{t: t, config: path, out: &out}
}

// run executes one command line and returns what it printed
func (e *cliEnv) run(args ...string) (string, error) {
	e.t.Helper()
	e.out.Reset()
	outputFmt = "text"
	pageLimit = 0
	pageCursor = ""

	rootCmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return e.out.String(), err
}

func (e *cliEnv) input(lines ...string) {
	prompter.SetIO(strings.NewReader(strings.Join(lines, "\n")+"\n"), e.out)
}

func TestCommandTree(t *testing.T) {
	paths := [][]string{
		{"auth", "signup"}, {"auth", "login"}, {"auth", "logout"}, {"auth", "whoami"}, {"auth", "token"}, {"auth", "password"},
		{"profile", "view"}, {"profile", "edit"}, {"profile", "avatar"}, {"profile", "search"},
		{"post", "create"}, {"post", "view"}, {"post", "list"}, {"post", "feed"}, {"post", "edit"},
		{"post", "delete"}, {"post", "like"}, {"post", "unlike"}, {"post", "save"}, {"post", "unsave"},
		{"reel", "create"}, {"reel", "view"}, {"reel", "list"}, {"reel", "feed"}, {"reel", "edit"},
		{"reel", "delete"}, {"reel", "like"}, {"reel", "unlike"}, {"reel", "save"}, {"reel", "unsave"},
		{"comment", "add"}, {"comment", "list"}, {"comment", "replies"}, {"comment", "edit"},
		{"comment", "delete"}, {"comment", "like"}, {"comment", "unlike"},
		{"follow", "user"}, {"follow", "unfollow"}, {"follow", "followers"}, {"follow", "following"},
		{"chat", "rooms"}, {"chat", "open"}, {"chat", "send"}, {"chat", "history"}, {"chat", "delete"}, {"chat", "watch"},
		{"notifications", "list"}, {"notifications", "unread"}, {"notifications", "read"},
		{"notifications", "read-all"}, {"notifications", "delete"}, {"notifications", "watch"},
		{"saved"}, {"seed"}, {"config", "get"}, {"config", "set"}, {"version"},
	}
	for _, p := range paths {
		t.Run(strings.Join(p, " "), func(t *testing.T) {
			found, _, err := rootCmd.Find(p)
			require.NoError(t, err)
			assert.Equal(t, p[len(p)-1], found.Name())
		})
	}
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.run("version")
	require.NoError(t, err)
	assert.Equal(t, "ansnips v"+client.Version+"\n", out)
}

func TestInvalidOutputFormat(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.run("--output", "yaml", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestConfigSetGet(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("config", "set", "cache.ttl", "60")
	require.NoError(t, err)

	out, err := env.run("config", "get", "cache.ttl")
	require.NoError(t, err)
	assert.Equal(t, "60\n", out)

	out, err = env.run("config", "get", "baas.project")
	require.NoError(t, err)
	assert.Equal(t, "proj\n", out)
}

func TestSignupAndPost(t *testing.T) {
	env := newCLIEnv(t)

	env.input("password1", "password1")
	out, err := env.run("auth", "signup", "--email", "ana@example.com", "--name", "Ana", "--username", "ana")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome to ansnips")

	out, err = env.run("auth", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "ana@example.com")

	image := filepath.Join(t.TempDir(), "sunset.png")
	require.NoError(t, os.WriteFile(image, []byte("png bytes"), 0o644))
	out, err = env.run("post", "create", image, "--caption", "golden hour", "--tags", "sky,sunset")
	require.NoError(t, err)
	assert.Contains(t, out, "Post published")

	out, err = env.run("--output", "json", "post", "list", "--tag", "sky")
	require.NoError(t, err)
	assert.Contains(t, out, "golden hour")
}

func TestCommandsRequireLogin(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.run("notifications", "unread")
	require.Error(t, err)
}
