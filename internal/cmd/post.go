package cmd

import (
	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/service"
	"github.com/spf13/cobra"
)

var (
	postCaption   string
	postTags      []string
	postLocation  string
	postUser      string
	postTag       string
	postFollowing bool
	postForce     bool
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post management commands",
	Long:  "Publish, browse and manage image posts",
}

var postCreateCmd = &cobra.Command{
	Use:   "create <image>",
	Short: "Upload an image and publish a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewPostService(a).Create(cmd.Context(), api.CreatePostRequest{
			ImagePath: args[0],
			Caption:   postCaption,
			Tags:      postTags,
			Location:  postLocation,
		})
	},
}

var postViewCmd = &cobra.Command{
	Use:   "view <post-id>",
	Short: "View post details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewPostService(a).View(cmd.Context(), args[0])
	},
}

var postListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts, optionally by user or tag",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewPostService(a).List(cmd.Context(), postUser, postTag, page())
	},
}

var postFeedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show the post feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewPostService(a).Feed(cmd.Context(), postFollowing, page())
	},
}

var postEditCmd = &cobra.Command{
	Use:   "edit <post-id>",
	Short: "Edit a post's caption, tags or location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		var req api.UpdatePostRequest
		if cmd.Flags().Changed("caption") {
			req.Caption = &postCaption
		}
		if cmd.Flags().Changed("tags") {
			req.Tags = append([]string{}, postTags...)
		}
		if cmd.Flags().Changed("location") {
			req.Location = &postLocation
		}
		return service.NewPostService(a).Edit(cmd.Context(), args[0], req)
	},
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewPostService(a).Delete(cmd.Context(), args[0], postForce)
	},
}

var postLikeCmd = &cobra.Command{
	Use:   "like <post-id>",
	Short: "Like a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewPostService(a).Like(cmd.Context(), args[0])
	},
}

var postUnlikeCmd = &cobra.Command{
	Use:   "unlike <post-id>",
	Short: "Unlike a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewPostService(a).Unlike(cmd.Context(), args[0])
	},
}

var postSaveCmd = &cobra.Command{
	Use:   "save <post-id>",
	Short: "Save a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewPostService(a).Save(cmd.Context(), args[0])
	},
}

var postUnsaveCmd = &cobra.Command{
	Use:   "unsave <post-id>",
	Short: "Remove a post from saved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewPostService(a).Unsave(cmd.Context(), args[0])
	},
}

func init() {
	// Create/edit flags
	for _, c := range []*cobra.Command{postCreateCmd, postEditCmd} {
		c.Flags().StringVarP(&postCaption, "caption", "c", "", "Caption")
		c.Flags().StringSliceVarP(&postTags, "tags", "t", nil, "Comma separated tags")
		c.Flags().StringVarP(&postLocation, "location", "l", "", "Location")
	}

	postListCmd.Flags().StringVar(&postUser, "user", "", "Only posts by this user")
	postListCmd.Flags().StringVar(&postTag, "tag", "", "Only posts with this tag")
	postFeedCmd.Flags().BoolVar(&postFollowing, "following", false, "Only people you follow")
	postDeleteCmd.Flags().BoolVarP(&postForce, "force", "f", false, "Skip confirmation")

	addPageFlags(postListCmd, postFeedCmd)

	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postViewCmd)
	postCmd.AddCommand(postListCmd)
	postCmd.AddCommand(postFeedCmd)
	postCmd.AddCommand(postEditCmd)
	postCmd.AddCommand(postDeleteCmd)
	postCmd.AddCommand(postLikeCmd)
	postCmd.AddCommand(postUnlikeCmd)
	postCmd.AddCommand(postSaveCmd)
	postCmd.AddCommand(postUnsaveCmd)
}
