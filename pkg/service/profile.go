package service

import (
	"context"
	"fmt"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/formatter"
	"github.com/ahmednagradev/ansnips/pkg/logger"
	"github.com/ahmednagradev/ansnips/pkg/output"
	"github.com/ahmednagradev/ansnips/pkg/prompter"
)

// ProfileService shows and edits user profiles
type ProfileService struct {
	api *api.API
}

// NewProfileService creates a new profile service
func NewProfileService(a *api.API) *ProfileService {
	return &ProfileService{api: a}
}

// resolve returns the profile for ref, or the signed-in user when ref is empty
func (ps *ProfileService) resolve(ctx context.Context, ref string) (*api.UserInfo, error) {
	if ref == "" {
		return ps.api.Me(ctx)
	}
	return ps.api.ResolveUser(ctx, ref)
}

// View prints a profile with its counts and recent posts
func (ps *ProfileService) View(ctx context.Context, ref string) error {
	logger.Debug("Viewing profile", "ref", ref)

	user, err := ps.resolve(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	posts, err := ps.api.ListPostsByUser(ctx, user.ID, api.Page{Limit: 5})
	if err != nil {
		return fmt.Errorf("failed to fetch posts: %w", err)
	}

	record := map[string]interface{}{
		"ID":        user.ID,
		"Username":  "@" + user.Username,
		"Name":      user.Name,
		"Bio":       user.Bio,
		"Followers": len(user.Followers),
		"Following": len(user.Following),
		"Posts":     posts.Total,
	}
	if user.AvatarURL != "" {
		record["Avatar"] = user.AvatarURL
	}
	if me := ps.api.UserID(); me != "" && me != user.ID {
		following, err := ps.api.IsFollowing(ctx, user.ID)
		if err == nil {
			record["You follow"] = following
		}
	}

	if output.IsJSON() {
		return output.Print("profile", map[string]interface{}{"user": user, "posts": posts.Items})
	}
	if err := output.PrintRecord("@"+user.Username, record); err != nil {
		return err
	}
	if len(posts.Items) > 0 {
		printf("\n")
		views, err := ps.api.HydratePosts(ctx, posts.Items)
		if err != nil {
			return err
		}
		return output.PrintList("Recent posts", formatter.PostColumns, formatter.PostRows(views), views)
	}
	return nil
}

// Edit changes profile fields. Nil fields are prompted for when interactive
// is set and left alone otherwise.
func (ps *ProfileService) Edit(ctx context.Context, upd api.ProfileUpdate, interactive bool) error {
	if interactive {
		me, err := ps.api.Me(ctx)
		if err != nil {
			return err
		}
		if upd.Name == nil {
			name, err := prompter.PromptDefault("Name:", me.Name)
			if err != nil {
				return err
			}
			upd.Name = &name
		}
		if upd.Username == nil {
			username, err := prompter.PromptDefault("Username:", me.Username)
			if err != nil {
				return err
			}
			upd.Username = &username
		}
		if upd.Bio == nil {
			bio, err := prompter.PromptDefault("Bio:", me.Bio)
			if err != nil {
				return err
			}
			upd.Bio = &bio
		}
	}

	user, err := ps.api.UpdateProfile(ctx, upd)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	output.PrintSuccess("✓ Profile updated")
	return output.PrintRecord("@"+user.Username, map[string]interface{}{
		"Username": "@" + user.Username,
		"Name":     user.Name,
		"Bio":      user.Bio,
	})
}

// Avatar uploads a new profile picture
func (ps *ProfileService) Avatar(ctx context.Context, path string) error {
	output.PrintInfo("Uploading avatar...")
	user, err := ps.api.UploadAvatar(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to upload avatar: %w", err)
	}
	output.PrintSuccess("✓ Avatar updated: %s", user.AvatarURL)
	return nil
}

// Search lists profiles matching term
func (ps *ProfileService) Search(ctx context.Context, term string, page api.Page) error {
	users, err := ps.api.SearchUsers(ctx, term, page)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	title := fmt.Sprintf("Users matching %q", term)
	if err := output.PrintList(title, formatter.UserColumns, formatter.UserRows(users.Items), users.Items); err != nil {
		return err
	}
	nextPageHint(users.NextCursor)
	return nil
}
