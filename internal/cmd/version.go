package cmd

import (
	"fmt"

	"github.com/ahmednagradev/ansnips/pkg/client"
	"github.com/ahmednagradev/ansnips/pkg/output"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(output.Stdout(), "ansnips v%s\n", client.Version)
	},
}
