package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/formatter"
	"github.com/ahmednagradev/ansnips/pkg/optimistic"
	"github.com/ahmednagradev/ansnips/pkg/output"
)

// FollowService manages the follow graph
type FollowService struct {
	api *api.API
}

// NewFollowService creates a new follow service
func NewFollowService(a *api.API) *FollowService {
	return &FollowService{api: a}
}

// Follow follows the user given by id or @username
func (fs *FollowService) Follow(ctx context.Context, ref string) error {
	return fs.set(ctx, ref, true)
}

// Unfollow stops following a user
func (fs *FollowService) Unfollow(ctx context.Context, ref string) error {
	return fs.set(ctx, ref, false)
}

func (fs *FollowService) set(ctx context.Context, ref string, following bool) error {
	user, err := fs.api.ResolveUser(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}

	st, err := fs.api.SetFollowing(ctx, user.ID, following)
	if err != nil {
		if errors.Is(err, optimistic.ErrInFlight) || errors.Is(err, api.ErrSelfFollow) {
			return err
		}
		return fmt.Errorf("failed to update follow: %w", err)
	}
	verb := "Unfollowed"
	if st.Active {
		verb = "Following"
	}
	printToggle(verb+" @"+user.Username, verb+" @"+user.Username, "follower", st)
	return nil
}

// Followers lists who follows the user, or the signed-in user when ref is
// empty
func (fs *FollowService) Followers(ctx context.Context, ref string, page api.Page) error {
	user, err := NewProfileService(fs.api).resolve(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}
	list, err := fs.api.Followers(ctx, user.ID, page)
	if err != nil {
		return fmt.Errorf("failed to list followers: %w", err)
	}
	return fs.print("Followers of @"+user.Username, list)
}

// Following lists who the user follows
func (fs *FollowService) Following(ctx context.Context, ref string, page api.Page) error {
	user, err := NewProfileService(fs.api).resolve(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}
	list, err := fs.api.Following(ctx, user.ID, page)
	if err != nil {
		return fmt.Errorf("failed to list following: %w", err)
	}
	return fs.print("@"+user.Username+" follows", list)
}

func (fs *FollowService) print(title string, list *api.List[api.UserInfo]) error {
	if err := output.PrintList(title, formatter.UserColumns, formatter.UserRows(list.Items), list.Items); err != nil {
		return err
	}
	nextPageHint(list.NextCursor)
	return nil
}
