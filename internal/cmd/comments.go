package cmd

import (
	"strings"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/service"
	"github.com/spf13/cobra"
)

var (
	commentOn      string
	commentReplyTo string
	commentForce   bool
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comment commands",
	Long:  "Comment on posts and reels, reply to comments and manage your comments",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <content-id> [text...]",
	Short: "Comment on a post or reel",
	Long:  "Comment on a post (or a reel with --on reel). The text is prompted for when omitted.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewCommentService(a).Add(cmd.Context(), api.AddCommentRequest{
			ContentType: commentOn,
			ContentID:   args[0],
			ParentID:    commentReplyTo,
			Text:        strings.Join(args[1:], " "),
		})
	},
}

var commentListCmd = &cobra.Command{
	Use:   "list <content-id>",
	Short: "List comments on a post or reel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewCommentService(a).List(cmd.Context(), commentOn, args[0], page())
	},
}

var commentRepliesCmd = &cobra.Command{
	Use:   "replies <comment-id>",
	Short: "List replies to a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewCommentService(a).Replies(cmd.Context(), args[0], page())
	},
}

var commentEditCmd = &cobra.Command{
	Use:   "edit <comment-id> <text...>",
	Short: "Edit your comment",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewCommentService(a).Edit(cmd.Context(), args[0], strings.Join(args[1:], " "))
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete your comment and its replies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewCommentService(a).Delete(cmd.Context(), args[0], commentForce)
	},
}

var commentLikeCmd = &cobra.Command{
	Use:   "like <comment-id>",
	Short: "Like a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewCommentService(a).Like(cmd.Context(), args[0])
	},
}

var commentUnlikeCmd = &cobra.Command{
	Use:   "unlike <comment-id>",
	Short: "Unlike a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewCommentService(a).Unlike(cmd.Context(), args[0])
	},
}

func init() {
	for _, c := range []*cobra.Command{commentAddCmd, commentListCmd} {
		c.Flags().StringVar(&commentOn, "on", api.ContentPost, "Content type: post or reel")
	}
	commentAddCmd.Flags().StringVar(&commentReplyTo, "reply-to", "", "Reply to this comment")
	commentDeleteCmd.Flags().BoolVarP(&commentForce, "force", "f", false, "Skip confirmation")

	addPageFlags(commentListCmd, commentRepliesCmd)

	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentListCmd)
	commentCmd.AddCommand(commentRepliesCmd)
	commentCmd.AddCommand(commentEditCmd)
	commentCmd.AddCommand(commentDeleteCmd)
	commentCmd.AddCommand(commentLikeCmd)
	commentCmd.AddCommand(commentUnlikeCmd)
}
