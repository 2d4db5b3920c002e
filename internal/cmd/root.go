package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/client"
	"github.com/ahmednagradev/ansnips/pkg/config"
	"github.com/ahmednagradev/ansnips/pkg/errors"
	"github.com/ahmednagradev/ansnips/pkg/logger"
	"github.com/ahmednagradev/ansnips/pkg/output"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	outputFmt  string

	pageLimit  int
	pageCursor string
)

var rootCmd = &cobra.Command{
	Use:   "ansnips",
	Short: "ansnips - share posts and reels from the terminal",
	Long: `ansnips is a command-line client for the ansnips social platform.
Publish posts and reels, comment, like, follow people and chat
directly from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(configPath); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		logger.Init(verbose)

		if !output.ValidateOutputFormat(outputFmt) {
			return fmt.Errorf("invalid output format %q (use text, json or table)", outputFmt)
		}
		config.Set("output.format", outputFmt)
		return nil
	},
}

// Execute runs the command tree. Interrupts cancel the command context so
// watch commands return cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	client.Close()

	if err != nil {
		output.PrintToast(errors.FormatError(err))
		os.Exit(1)
	}
}

// connect returns the shared API handle with the stored session resumed
func connect() (*api.API, error) {
	return client.Get()
}

// addPageFlags adds --limit and --cursor to listing commands
func addPageFlags(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().IntVar(&pageLimit, "limit", api.DefaultPageSize, "Results per page")
		c.Flags().StringVar(&pageCursor, "cursor", "", "Continue after this id (printed at the end of a page)")
	}
}

func page() api.Page {
	return api.Page{Limit: pageLimit, Cursor: pageCursor}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/ansnips/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format: text, json, table")

	// Add subcommands
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(reelCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(followCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(savedCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
