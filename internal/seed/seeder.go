// Package seed fills a development project with fake users and activity
package seed

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/logger"
	"github.com/brianvoe/gofakeit/v7"
)

// Options controls how much data is generated. Chances are between 0 and 1.
type Options struct {
	Users         int
	PostsPerUser  int
	LikeChance    float64
	CommentChance float64
	FollowChance  float64
	Password      string
	Seed          int64
}

// DefaultOptions returns a small, well connected data set
func DefaultOptions() Options {
	return Options{
		Users:         5,
		PostsPerUser:  3,
		LikeChance:    0.6,
		CommentChance: 0.4,
		FollowChance:  0.5,
		Password:      "password123",
	}
}

// Account is a seeded user that can log in with Options.Password
type Account struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Result summarizes a seeding run
type Result struct {
	Accounts []Account `json:"accounts"`
	Posts    int       `json:"posts"`
	Comments int       `json:"comments"`
	Likes    int       `json:"likes"`
	Follows  int       `json:"follows"`
}

// Seeder creates data through the regular API so every permission and
// notification is set up the way real usage would
type Seeder struct {
	api      *api.API
	opts     Options
	dir      string
	progress func(msg string)
}

// NewSeeder creates a seeder. a must not be shared with a signed-in session,
// the seeder signs in as each generated user in turn.
func NewSeeder(a *api.API, opts Options) *Seeder {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// Seed only fails for invalid sources.
	_ = gofakeit.Seed(seed)
	return &Seeder{api: a, opts: opts, progress: func(string) {}}
}

// OnProgress sets a callback for progress messages
func (s *Seeder) OnProgress(fn func(msg string)) {
	s.progress = fn
}

type seededPost struct {
	id    string
	owner string
}

// Run generates users, posts, likes, comments and follows
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	dir, err := os.MkdirTemp("", "ansnips-seed-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)
	s.dir = dir

	res := &Result{}

	s.progress("Creating users...")
	var posts []seededPost
	for i := 0; i < s.opts.Users; i++ {
		s.signOut(ctx)
		acc, err := s.seedUser(ctx, i)
		if err != nil {
			return res, fmt.Errorf("failed to seed user: %w", err)
		}
		res.Accounts = append(res.Accounts, *acc)

		for j := 0; j < s.opts.PostsPerUser; j++ {
			id, err := s.seedPost(ctx, i*s.opts.PostsPerUser+j)
			if err != nil {
				return res, fmt.Errorf("failed to seed post: %w", err)
			}
			posts = append(posts, seededPost{id: id, owner: acc.ID})
			res.Posts++
		}
	}

	s.progress("Creating likes, comments and follows...")
	for _, acc := range res.Accounts {
		s.signOut(ctx)
		if _, err := s.api.Login(ctx, acc.Email, s.opts.Password); err != nil {
			return res, fmt.Errorf("failed to sign in as @%s: %w", acc.Username, err)
		}
		if err := s.interact(ctx, acc, res, posts); err != nil {
			return res, err
		}
	}

	s.signOut(ctx)
	logger.Info("Seeding finished", "users", len(res.Accounts), "posts", res.Posts, "likes", res.Likes, "comments", res.Comments, "follows", res.Follows)
	return res, nil
}

func (s *Seeder) interact(ctx context.Context, acc Account, res *Result, posts []seededPost) error {
	for _, p := range posts {
		if p.owner == acc.ID {
			continue
		}
		if s.roll(s.opts.LikeChance) {
			if _, err := s.api.Like(ctx, api.ContentPost, p.id); err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}
			res.Likes++
		}
		if s.roll(s.opts.CommentChance) {
			_, err := s.api.AddComment(ctx, api.AddCommentRequest{
				ContentType: api.ContentPost,
				ContentID:   p.id,
				Text:        gofakeit.HipsterSentence(),
			})
			if err != nil {
				return fmt.Errorf("failed to seed comment: %w", err)
			}
			res.Comments++
		}
	}
	for _, other := range res.Accounts {
		if other.ID == acc.ID || !s.roll(s.opts.FollowChance) {
			continue
		}
		if err := s.api.Follow(ctx, other.ID); err != nil {
			return fmt.Errorf("failed to seed follow: %w", err)
		}
		res.Follows++
	}
	return nil
}

// signOut ends the previous user's session; the BaaS refuses a new session
// while one is active
func (s *Seeder) signOut(ctx context.Context) {
	if s.api.UserID() == "" {
		return
	}
	if err := s.api.Logout(ctx); err != nil {
		logger.Warn("Failed to end seeding session", "error", err)
	}
}

func (s *Seeder) roll(chance float64) bool {
	return gofakeit.Float64Range(0, 1) < chance
}

var usernameJunk = regexp.MustCompile(`[^a-z0-9_]`)

func (s *Seeder) seedUser(ctx context.Context, i int) (*Account, error) {
	base := usernameJunk.ReplaceAllString(strings.ToLower(gofakeit.Username()), "")
	if len(base) > 20 {
		base = base[:20]
	}
	if len(base) < 2 {
		base = "user"
	}
	username := fmt.Sprintf("%s_%d", base, i)
	email := username + "@example.com"

	res, err := s.api.SignUp(ctx, api.SignUpRequest{
		Email:    email,
		Password: s.opts.Password,
		Name:     gofakeit.Name(),
		Username: username,
	})
	if err != nil {
		return nil, err
	}

	bio := gofakeit.HipsterSentence()
	if len([]rune(bio)) > api.MaxBioLength {
		bio = string([]rune(bio)[:api.MaxBioLength])
	}
	if _, err := s.api.UpdateProfile(ctx, api.ProfileUpdate{Bio: &bio}); err != nil {
		logger.Warn("Failed to seed bio", "username", username, "error", err)
	}

	s.progress("  @" + username)
	return &Account{ID: res.Account.ID, Username: username, Email: email}, nil
}

func (s *Seeder) seedPost(ctx context.Context, n int) (string, error) {
	path, err := s.writeImage(n)
	if err != nil {
		return "", err
	}
	post, err := s.api.CreatePost(ctx, api.CreatePostRequest{
		ImagePath: path,
		Caption:   gofakeit.HipsterSentence(),
		Tags:      []string{gofakeit.Word(), gofakeit.Word()},
		Location:  fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.Country()),
	})
	if err != nil {
		return "", err
	}
	return post.ID, nil
}

// writeImage renders a small solid-color PNG to upload as a post image
func (s *Seeder) writeImage(n int) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	fill := color.RGBA{
		R: uint8(gofakeit.Number(0, 255)),
		G: uint8(gofakeit.Number(0, 255)),
		B: uint8(gofakeit.Number(0, 255)),
		A: 255,
	}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, fill)
		}
	}

	path := filepath.Join(s.dir, fmt.Sprintf("post_%d.png", n))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", err
	}
	return path, nil
}
