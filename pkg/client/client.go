// Package client builds the process-wide API handle from config and the
// stored session.
package client

import (
	"io"
	"sync"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/cache"
	"github.com/ahmednagradev/ansnips/pkg/cdn"
	"github.com/ahmednagradev/ansnips/pkg/config"
	"github.com/ahmednagradev/ansnips/pkg/credentials"
	"github.com/ahmednagradev/ansnips/pkg/logger"
)

// Version is reported in the User-Agent header
var Version = "0.1.0"

var (
	mu      sync.Mutex
	current *api.API
	store   cache.Cache
)

// Options reads the API wiring from config
func Options() (api.Options, error) {
	c, err := cache.New(config.GetString("cache.redis_url"))
	if err != nil {
		return api.Options{}, err
	}

	b := baas.NewClient(baas.Config{
		Endpoint:         config.GetString("baas.endpoint"),
		RealtimeEndpoint: config.GetString("baas.realtime_endpoint"),
		Project:          config.GetString("baas.project"),
		APIKey:           config.GetString("baas.api_key"),
		Timeout:          time.Duration(config.GetInt("baas.timeout")) * time.Second,
		UserAgent:        "ansnips/" + Version,
	})

	media := cdn.NewClient(cdn.Config{
		BaseURL:      config.GetString("cdn.base_url"),
		DeliveryURL:  config.GetString("cdn.delivery_url"),
		CloudName:    config.GetString("cdn.cloud_name"),
		APIKey:       config.GetString("cdn.api_key"),
		APISecret:    config.GetString("cdn.api_secret"),
		UploadPreset: config.GetString("cdn.upload_preset"),
	})

	return api.Options{
		BaaS:       b,
		CDN:        media,
		Cache:      c,
		CacheTTL:   time.Duration(config.GetInt("cache.ttl")) * time.Second,
		DatabaseID: config.GetString("baas.database"),
		BucketID:   config.GetString("baas.bucket"),
		CDNFolder:  config.GetString("cdn.folder"),
		Collections: api.Collections{
			Users:         config.Collection("users"),
			Posts:         config.Collection("posts"),
			Reels:         config.Collection("reels"),
			Comments:      config.Collection("comments"),
			Likes:         config.Collection("likes"),
			Saves:         config.Collection("saves"),
			Notifications: config.Collection("notifications"),
			ChatRooms:     config.Collection("chatrooms"),
			Messages:      config.Collection("messages"),
		},
	}, nil
}

// Init builds the API and resumes the stored session, if any
func Init() error {
	opts, err := Options()
	if err != nil {
		return err
	}
	a := api.New(opts)

	creds, err := credentials.Load()
	if err != nil {
		logger.Warn("Ignoring stored credentials", "error", err)
	}
	switch {
	case creds == nil:
	case creds.IsValid():
		a.Resume(creds.Secret, creds.UserID)
		if creds.HasJWT() {
			opts.BaaS.SetJWT(creds.JWT)
		}
		logger.Debug("Resumed session", "user_id", creds.UserID)
	default:
		logger.Debug("Stored session expired", "user_id", creds.UserID, "expired_at", creds.ExpiresAt)
	}

	mu.Lock()
	closeLocked()
	current = a
	store = opts.Cache
	mu.Unlock()
	return nil
}

// Get returns the API, building it on first use
func Get() (*api.API, error) {
	mu.Lock()
	a := current
	mu.Unlock()
	if a != nil {
		return a, nil
	}
	if err := Init(); err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()
	return current, nil
}

// Set replaces the API handle, used by tests
func Set(a *api.API) {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	current = a
}

// Close releases the cache connection
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	current = nil
}

func closeLocked() {
	if c, ok := store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Debug("Closing cache failed", "error", err)
		}
	}
	store = nil
}

// SaveSession stores a fresh sign-in
func SaveSession(res *api.AuthResult) error {
	creds := &credentials.Credentials{
		SessionID: res.Session.ID,
		Secret:    res.Session.Secret,
		ExpiresAt: res.Session.Expire,
		UserID:    res.Account.ID,
		Email:     res.Account.Email,
	}
	if res.Profile != nil {
		creds.Username = res.Profile.Username
	}
	return credentials.Save(creds)
}

// ClearSession forgets the stored sign-in
func ClearSession() error {
	return credentials.Delete()
}
