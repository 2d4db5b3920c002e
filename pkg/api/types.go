package api

import (
	"time"

	"github.com/ahmednagradev/ansnips/pkg/baas"
)

// Content types a comment, like, save or notification can point at
const (
	ContentPost    = "post"
	ContentReel    = "reel"
	ContentComment = "comment"
)

// Notification types
const (
	NotifyLike    = "like"
	NotifyComment = "comment"
	NotifyFollow  = "follow"
	NotifyMessage = "message"
)

// UserInfo is the public profile stored next to each account. Its document
// id equals the account id.
type UserInfo struct {
	baas.Document
	UserID    string   `json:"userId"`
	Username  string   `json:"username"`
	Name      string   `json:"name"`
	Bio       string   `json:"bio"`
	AvatarURL string   `json:"avatarUrl"`
	AvatarID  string   `json:"avatarId"`
	Followers []string `json:"followers"`
	Following []string `json:"following"`
}

// Post is an image post
type Post struct {
	baas.Document
	UserID   string   `json:"userId"`
	Caption  string   `json:"caption"`
	ImageID  string   `json:"imageId"`
	ImageURL string   `json:"imageUrl"`
	Tags     []string `json:"tags"`
	Location string   `json:"location"`
}

// Reel is a short video hosted on the media CDN
type Reel struct {
	baas.Document
	UserID       string  `json:"userId"`
	Caption      string  `json:"caption"`
	VideoURL     string  `json:"videoUrl"`
	PublicID     string  `json:"publicId"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	Duration     float64 `json:"duration"`
}

// Comment is a comment on a post or reel. Replies carry the parent's id.
type Comment struct {
	baas.Document
	UserID      string `json:"userId"`
	ContentID   string `json:"contentId"`
	ContentType string `json:"contentType"`
	ParentID    string `json:"parentId"`
	Text        string `json:"text"`
	Edited      bool   `json:"edited"`
}

// Like records that a user liked a post, reel or comment
type Like struct {
	baas.Document
	UserID      string `json:"userId"`
	ContentID   string `json:"contentId"`
	ContentType string `json:"contentType"`
}

// Save records a bookmarked post or reel
type Save struct {
	baas.Document
	UserID      string `json:"userId"`
	ContentID   string `json:"contentId"`
	ContentType string `json:"contentType"`
}

// Notification tells ReceiverID that SenderID did something
type Notification struct {
	baas.Document
	ReceiverID  string `json:"receiverId"`
	SenderID    string `json:"senderId"`
	Type        string `json:"type"`
	ContentID   string `json:"contentId"`
	ContentType string `json:"contentType"`
	Message     string `json:"message"`
	IsRead      bool   `json:"isRead"`
}

// ChatRoom is a one-to-one conversation
type ChatRoom struct {
	baas.Document
	Participants  []string  `json:"participants"`
	PairKey       string    `json:"pairKey"`
	LastMessage   string    `json:"lastMessage"`
	LastSenderID  string    `json:"lastSenderId"`
	LastMessageAt time.Time `json:"lastMessageAt"`
}

// Other returns the participant that is not userID
func (r ChatRoom) Other(userID string) string {
	for _, p := range r.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// Message is a chat message
type Message struct {
	baas.Document
	RoomID   string `json:"roomId"`
	SenderID string `json:"senderId"`
	Text     string `json:"text"`
	IsRead   bool   `json:"isRead"`
}

// Page selects a window of a listing. Cursor is the id of the last document
// of the previous page.
type Page struct {
	Limit  int
	Cursor string
}

// DefaultPageSize is used when Page.Limit is zero
const DefaultPageSize = 20

// MaxPageSize is the largest page the BaaS serves
const MaxPageSize = 100

func (p Page) size() int {
	switch {
	case p.Limit <= 0:
		return DefaultPageSize
	case p.Limit > MaxPageSize:
		return MaxPageSize
	default:
		return p.Limit
	}
}

func (p Page) queries() []baas.Query {
	q := []baas.Query{baas.Limit(p.size())}
	if p.Cursor != "" {
		q = append(q, baas.CursorAfter(p.Cursor))
	}
	return q
}

// List is one page of results plus the cursor for the next page. NextCursor
// is empty on the last page.
type List[T any] struct {
	Items      []T
	Total      int
	NextCursor string
}

func listFrom[T any](docs *baas.DocumentList[T], page Page, id func(T) string) *List[T] {
	limit := page.size()
	out := &List[T]{Items: docs.Documents, Total: docs.Total}
	if n := len(docs.Documents); n > 0 && n >= limit {
		out.NextCursor = id(docs.Documents[n-1])
	}
	return out
}

// PostView is a post with what the feed shows around it
type PostView struct {
	Post         Post
	Author       *UserInfo
	LikeCount    int
	CommentCount int
	Liked        bool
	Saved        bool
}

// ReelView is a reel with what the reel feed shows around it
type ReelView struct {
	Reel         Reel
	Author       *UserInfo
	LikeCount    int
	CommentCount int
	Liked        bool
	Saved        bool
}
