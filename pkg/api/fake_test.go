package api

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ahmednagradev/ansnips/internal/fakebaas"
	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/cache"
	"github.com/ahmednagradev/ansnips/pkg/cdn"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	api  *API
	baas *fakebaas.BaaS
	cdn  *fakebaas.CDN
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fb := fakebaas.New()
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	fc := fakebaas.NewCDN(30)
	cdnSrv := httptest.NewServer(fc)
	t.Cleanup(cdnSrv.Close)

	client := baas.NewClient(baas.Config{Endpoint: srv.URL + "/v1", Project: "proj", Timeout: 5 * time.Second})
	a := New(Options{
		BaaS: client,
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
		Collections: DefaultCollections(),
	})
	return &testEnv{api: a, baas: fb, cdn: fc}
}

// as switches the signed-in user
func (e *testEnv) as(userID string) *API {
	e.api.SetUser(userID)
	return e.api
}

func writeTempFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	return path
}
