package cmd

import (
	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/service"
	"github.com/spf13/cobra"
)

var savedType string

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List your saved posts or reels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewSavedService(a).List(cmd.Context(), savedType, page())
	},
}

func init() {
	savedCmd.Flags().StringVar(&savedType, "type", api.ContentPost, "Content type: post or reel")
	addPageFlags(savedCmd)
}
