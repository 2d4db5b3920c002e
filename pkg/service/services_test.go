package service

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ahmednagradev/ansnips/internal/fakebaas"
	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/cache"
	"github.com/ahmednagradev/ansnips/pkg/cdn"
	"github.com/ahmednagradev/ansnips/pkg/config"
	"github.com/ahmednagradev/ansnips/pkg/output"
	"github.com/ahmednagradev/ansnips/pkg/prompter"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	api  *api.API
	baas *fakebaas.BaaS
	out  *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "config.toml")))

	fb := fakebaas.New()
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	cdnSrv := httptest.NewServer(fakebaas.NewCDN(12))
	t.Cleanup(cdnSrv.Close)

	a := api.New(api.Options{
		BaaS: baas.NewClient(baas.Config{Endpoint: srv.URL + "/v1", Project: "proj", Timeout: 5 * time.Second}),
		CDN: cdn.NewClient(cdn.Config{
			BaseURL:     cdnSrv.URL,
			DeliveryURL: "https://cdn.test",
			CloudName:   "demo",
			APIKey:      "key",
			APISecret:   "secret",
		}),
		Cache:       cache.NewMemory(),
		DatabaseID:  "db",
		BucketID:    "media",
		Collections: api.DefaultCollections(),
	})

	var out bytes.Buffer
	output.SetWriters(&out, &out)
	t.Cleanup(func() { output.SetWriters(os.Stdout, os.Stderr) })
	prompter.SetIO(strings.NewReader(""), &out)

	return &testEnv{api: a, baas: fb, out: &out}
}

// input queues answers for the next prompts
func (e *testEnv) input(lines ...string) {
	prompter.SetIO(strings.NewReader(strings.Join(lines, "\n")+"\n"), e.out)
}

func (e *testEnv) as(userID string) *api.API {
	e.api.SetUser(userID)
	return e.api
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg bytes"), 0o644))
	return path
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		count    int
		expected string
	}{
		{0, "s"},
		{1, ""},
		{2, "s"},
	}
	for _, tt := range tests {
		if got := pluralize(tt.count); got != tt.expected {
			t.Errorf("pluralize(%d): got %q, want %q", tt.count, got, tt.expected)
		}
	}
}

func TestServiceInitialization(t *testing.T) {
	a := api.New(api.Options{BaaS: baas.NewClient(baas.Config{Endpoint: "http://localhost/v1"})})
	tests := []struct {
		name     string
		initFunc func() interface{}
	}{
		{"AuthService", func() interface{} { return NewAuthService(a) }},
		{"ProfileService", func() interface{} { return NewProfileService(a) }},
		{"PostService", func() interface{} { return NewPostService(a) }},
		{"ReelService", func() interface{} { return NewReelService(a) }},
		{"CommentService", func() interface{} { return NewCommentService(a) }},
		{"FollowService", func() interface{} { return NewFollowService(a) }},
		{"ChatService", func() interface{} { return NewChatService(a) }},
		{"NotificationService", func() interface{} { return NewNotificationService(a) }},
		{"SavedService", func() interface{} { return NewSavedService(a) }},
	}
	for _, tt := range tests {
		if tt.initFunc() == nil {
			t.Errorf("%s: returned nil", tt.name)
		}
	}
}
