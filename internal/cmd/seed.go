package cmd

import (
	"fmt"
	"io"

	"github.com/ahmednagradev/ansnips/internal/seed"
	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/client"
	"github.com/ahmednagradev/ansnips/pkg/output"
	"github.com/spf13/cobra"
)

var seedOpts = seed.DefaultOptions()

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill a development project with fake data",
	Long: `Create fake users with posts, then have them like, comment on and
follow each other. Every seeded account uses the same password.
Your own session is left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := client.Options()
		if err != nil {
			return err
		}
		if c, ok := opts.Cache.(io.Closer); ok {
			defer c.Close()
		}

		seeder := seed.NewSeeder(api.New(opts), seedOpts)
		seeder.OnProgress(func(msg string) {
			output.PrintInfo("%s", msg)
		})

		res, err := seeder.Run(cmd.Context())
		if err != nil {
			if res != nil && len(res.Accounts) > 0 {
				output.PrintWarning("Stopped after %d account(s)", len(res.Accounts))
			}
			return err
		}

		if output.IsJSON() {
			return output.Print("seed", res)
		}
		output.PrintSuccess("✓ Seeded %d users, %d posts, %d likes, %d comments, %d follows",
			len(res.Accounts), res.Posts, res.Likes, res.Comments, res.Follows)
		rows := make([][]string, 0, len(res.Accounts))
		for _, acc := range res.Accounts {
			rows = append(rows, []string{"@" + acc.Username, acc.Email, acc.ID})
		}
		if err := output.PrintList("Accounts", []string{"USERNAME", "EMAIL", "ID"}, rows, res.Accounts); err != nil {
			return err
		}
		fmt.Fprintf(output.Stdout(), "\nPassword for every account: %s\n", seedOpts.Password)
		return nil
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedOpts.Users, "users", seedOpts.Users, "Number of users")
	seedCmd.Flags().IntVar(&seedOpts.PostsPerUser, "posts", seedOpts.PostsPerUser, "Posts per user")
	seedCmd.Flags().Float64Var(&seedOpts.LikeChance, "like-chance", seedOpts.LikeChance, "Chance a user likes a post (0-1)")
	seedCmd.Flags().Float64Var(&seedOpts.CommentChance, "comment-chance", seedOpts.CommentChance, "Chance a user comments on a post (0-1)")
	seedCmd.Flags().Float64Var(&seedOpts.FollowChance, "follow-chance", seedOpts.FollowChance, "Chance a user follows another (0-1)")
	seedCmd.Flags().StringVar(&seedOpts.Password, "password", seedOpts.Password, "Password for every seeded account")
	seedCmd.Flags().Int64Var(&seedOpts.Seed, "seed", 0, "Random seed (0 picks one)")
}
