package cmd

import (
	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/service"
	"github.com/spf13/cobra"
)

var (
	reelCaption string
	reelUser    string
	reelForce   bool
)

var reelCmd = &cobra.Command{
	Use:   "reel",
	Short: "Reel commands",
	Long:  "Publish, browse and manage short videos",
}

var reelCreateCmd = &cobra.Command{
	Use:   "create <video>",
	Short: "Upload a video and publish a reel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewReelService(a).Create(cmd.Context(), api.CreateReelRequest{
			VideoPath: args[0],
			Caption:   reelCaption,
		})
	},
}

var reelViewCmd = &cobra.Command{
	Use:   "view <reel-id>",
	Short: "View reel details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewReelService(a).View(cmd.Context(), args[0])
	},
}

var reelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reels, optionally by user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewReelService(a).List(cmd.Context(), reelUser, page())
	},
}

var reelFeedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show the reel feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewReelService(a).Feed(cmd.Context(), page())
	},
}

var reelEditCmd = &cobra.Command{
	Use:   "edit <reel-id> <caption>",
	Short: "Change a reel's caption",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewReelService(a).Edit(cmd.Context(), args[0], args[1])
	},
}

var reelDeleteCmd = &cobra.Command{
	Use:   "delete <reel-id>",
	Short: "Delete a reel and its video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewReelService(a).Delete(cmd.Context(), args[0], reelForce)
	},
}

var reelLikeCmd = &cobra.Command{
	Use:   "like <reel-id>",
	Short: "Like a reel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewReelService(a).Like(cmd.Context(), args[0])
	},
}

var reelUnlikeCmd = &cobra.Command{
	Use:   "unlike <reel-id>",
	Short: "Unlike a reel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewReelService(a).Unlike(cmd.Context(), args[0])
	},
}

var reelSaveCmd = &cobra.Command{
	Use:   "save <reel-id>",
	Short: "Save a reel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewReelService(a).Save(cmd.Context(), args[0])
	},
}

var reelUnsaveCmd = &cobra.Command{
	Use:   "unsave <reel-id>",
	Short: "Remove a reel from saved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewReelService(a).Unsave(cmd.Context(), args[0])
	},
}

func init() {
	reelCreateCmd.Flags().StringVarP(&reelCaption, "caption", "c", "", "Caption")
	reelListCmd.Flags().StringVar(&reelUser, "user", "", "Only reels by this user")
	reelDeleteCmd.Flags().BoolVarP(&reelForce, "force", "f", false, "Skip confirmation")

	addPageFlags(reelListCmd, reelFeedCmd)

	reelCmd.AddCommand(reelCreateCmd)
	reelCmd.AddCommand(reelViewCmd)
	reelCmd.AddCommand(reelListCmd)
	reelCmd.AddCommand(reelFeedCmd)
	reelCmd.AddCommand(reelEditCmd)
	reelCmd.AddCommand(reelDeleteCmd)
	reelCmd.AddCommand(reelLikeCmd)
	reelCmd.AddCommand(reelUnlikeCmd)
	reelCmd.AddCommand(reelSaveCmd)
	reelCmd.AddCommand(reelUnsaveCmd)
}
