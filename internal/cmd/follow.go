package cmd

import (
	"github.com/ahmednagradev/ansnips/pkg/service"
	"github.com/spf13/cobra"
)

var followCmd = &cobra.Command{
	Use:   "follow",
	Short: "Follow commands",
	Long:  "Follow people and list followers",
}

var followUserCmd = &cobra.Command{
	Use:   "user <username|user-id>",
	Short: "Follow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewFollowService(a).Follow(cmd.Context(), args[0])
	},
}

var unfollowUserCmd = &cobra.Command{
	Use:   "unfollow <username|user-id>",
	Short: "Unfollow a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewFollowService(a).Unfollow(cmd.Context(), args[0])
	},
}

var followersCmd = &cobra.Command{
	Use:   "followers [username|user-id]",
	Short: "List followers (yours by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewFollowService(a).Followers(cmd.Context(), optionalArg(args), page())
	},
}

var followingCmd = &cobra.Command{
	Use:   "following [username|user-id]",
	Short: "List who a user follows (you by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewFollowService(a).Following(cmd.Context(), optionalArg(args), page())
	},
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func init() {
	addPageFlags(followersCmd, followingCmd)

	followCmd.AddCommand(followUserCmd)
	followCmd.AddCommand(unfollowUserCmd)
	followCmd.AddCommand(followersCmd)
	followCmd.AddCommand(followingCmd)
}
