// Package api holds the thin service wrappers that turn ansnips actions into
// BaaS document, storage and account calls.
package api

import (
	"context"
	"sync"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/cache"
	"github.com/ahmednagradev/ansnips/pkg/cdn"
	"github.com/ahmednagradev/ansnips/pkg/logger"
)

// Collections maps each entity to its BaaS collection id
type Collections struct {
	Users         string
	Posts         string
	Reels         string
	Comments      string
	Likes         string
	Saves         string
	Notifications string
	ChatRooms     string
	Messages      string
}

// DefaultCollections uses the entity names as collection ids
func DefaultCollections() Collections {
	return Collections{
		Users:         "users",
		Posts:         "posts",
		Reels:         "reels",
		Comments:      "comments",
		Likes:         "likes",
		Saves:         "saves",
		Notifications: "notifications",
		ChatRooms:     "chatrooms",
		Messages:      "messages",
	}
}

// Options wires an API to its backends
type Options struct {
	BaaS        *baas.Client
	CDN         *cdn.Client
	Cache       cache.Cache
	CacheTTL    time.Duration
	DatabaseID  string
	BucketID    string
	Collections Collections
	CDNFolder   string
}

// API is the entry point for every ansnips operation. It is safe for
// concurrent use once the signed-in user is set.
type API struct {
	baas      *baas.Client
	account   *baas.Account
	bucket    *baas.Bucket
	cdn       *cdn.Client
	cache     cache.Cache
	cacheTTL  time.Duration
	cdnFolder string
	database  string

	users         *baas.Collection[UserInfo]
	posts         *baas.Collection[Post]
	reels         *baas.Collection[Reel]
	comments      *baas.Collection[Comment]
	likes         *baas.Collection[Like]
	saves         *baas.Collection[Save]
	notifications *baas.Collection[Notification]
	chatRooms     *baas.Collection[ChatRoom]
	messages      *baas.Collection[Message]

	mu     sync.RWMutex
	userID string

	toggles *toggleRegistry
}

// New builds an API from opts
func New(opts Options) *API {
	if opts.Cache == nil {
		opts.Cache = cache.NewMemory()
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.CDNFolder == "" {
		opts.CDNFolder = "reels"
	}
	c := opts.Collections
	db := opts.DatabaseID

	return &API{
		baas:      opts.BaaS,
		account:   baas.NewAccount(opts.BaaS),
		bucket:    baas.NewBucket(opts.BaaS, opts.BucketID),
		cdn:       opts.CDN,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		cdnFolder: opts.CDNFolder,
		database:  db,

		users:         baas.NewCollection[UserInfo](opts.BaaS, db, c.Users),
		posts:         baas.NewCollection[Post](opts.BaaS, db, c.Posts),
		reels:         baas.NewCollection[Reel](opts.BaaS, db, c.Reels),
		comments:      baas.NewCollection[Comment](opts.BaaS, db, c.Comments),
		likes:         baas.NewCollection[Like](opts.BaaS, db, c.Likes),
		saves:         baas.NewCollection[Save](opts.BaaS, db, c.Saves),
		notifications: baas.NewCollection[Notification](opts.BaaS, db, c.Notifications),
		chatRooms:     baas.NewCollection[ChatRoom](opts.BaaS, db, c.ChatRooms),
		messages:      baas.NewCollection[Message](opts.BaaS, db, c.Messages),

		toggles: newToggleRegistry(),
	}
}

// BaaS exposes the underlying BaaS client
func (a *API) BaaS() *baas.Client {
	return a.baas
}

// SetUser sets the signed-in user id used for ownership and authorship
func (a *API) SetUser(userID string) {
	a.mu.Lock()
	changed := a.userID != userID
	a.userID = userID
	a.mu.Unlock()
	if changed {
		a.toggles.reset()
	}
}

// UserID returns the signed-in user id, or "" when signed out
func (a *API) UserID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.userID
}

func (a *API) me() (string, error) {
	id := a.UserID()
	if id == "" {
		return "", ErrNotLoggedIn
	}
	return id, nil
}

// ownedBy is the post-hoc ownership check. The BaaS permissions are the
// real boundary; this avoids sending requests that are bound to fail.
func (a *API) ownedBy(ownerID string) (string, error) {
	me, err := a.me()
	if err != nil {
		return "", err
	}
	if ownerID != me {
		return "", ErrNotOwner
	}
	return me, nil
}

// Realtime returns an unconnected subscription to the given collections of
// the ansnips database
func (a *API) Realtime(collections ...string) *baas.Realtime {
	channels := make([]string, len(collections))
	for i, col := range collections {
		channels[i] = baas.DocumentsChannel(a.database, col)
	}
	return baas.NewRealtime(a.baas, baas.DefaultRealtimeConfig(), channels...)
}

// CollectionIDs returns the configured collection ids
func (a *API) CollectionIDs() Collections {
	return Collections{
		Users:         a.users.ID(),
		Posts:         a.posts.ID(),
		Reels:         a.reels.ID(),
		Comments:      a.comments.ID(),
		Likes:         a.likes.ID(),
		Saves:         a.saves.ID(),
		Notifications: a.notifications.ID(),
		ChatRooms:     a.chatRooms.ID(),
		Messages:      a.messages.ID(),
	}
}

// deleteAll removes every document matching queries, one page at a time.
// Failures are logged and skipped so a cascade finishes as much as it can.
func deleteAll[T any](ctx context.Context, col *baas.Collection[T], id func(T) string, queries ...baas.Query) int {
	deleted := 0
	for {
		list, err := col.List(ctx, append(queries, baas.Limit(MaxPageSize))...)
		if err != nil {
			logger.Warn("Cascade listing failed", "collection", col.ID(), "error", err)
			return deleted
		}
		if len(list.Documents) == 0 {
			return deleted
		}

		progressed := false
		for _, doc := range list.Documents {
			if err := col.Delete(ctx, id(doc)); err != nil && !baas.IsNotFound(err) {
				logger.Warn("Cascade delete failed", "collection", col.ID(), "id", id(doc), "error", err)
				continue
			}
			deleted++
			progressed = true
		}
		if !progressed || len(list.Documents) < MaxPageSize {
			return deleted
		}
	}
}
