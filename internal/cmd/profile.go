package cmd

import (
	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/service"
	"github.com/spf13/cobra"
)

var (
	profileName     string
	profileUsername string
	profileBio      string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile commands",
	Long:  "View and edit profiles and search for people",
}

var profileViewCmd = &cobra.Command{
	Use:   "view [username|user-id]",
	Short: "View a profile (yours by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewProfileService(a).View(cmd.Context(), optionalArg(args))
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit your profile",
	Long:  "Edit your profile. Without flags every field is prompted for.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		var upd api.ProfileUpdate
		if cmd.Flags().Changed("name") {
			upd.Name = &profileName
		}
		if cmd.Flags().Changed("username") {
			upd.Username = &profileUsername
		}
		if cmd.Flags().Changed("bio") {
			upd.Bio = &profileBio
		}
		interactive := upd.Name == nil && upd.Username == nil && upd.Bio == nil
		return service.NewProfileService(a).Edit(cmd.Context(), upd, interactive)
	},
}

var profileAvatarCmd = &cobra.Command{
	Use:   "avatar <image>",
	Short: "Upload a new avatar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewProfileService(a).Avatar(cmd.Context(), args[0])
	},
}

var profileSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search people by username",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewProfileService(a).Search(cmd.Context(), args[0], page())
	},
}

func init() {
	profileEditCmd.Flags().StringVar(&profileName, "name", "", "Display name")
	profileEditCmd.Flags().StringVar(&profileUsername, "username", "", "Username")
	profileEditCmd.Flags().StringVar(&profileBio, "bio", "", "Bio")

	addPageFlags(profileSearchCmd)

	profileCmd.AddCommand(profileViewCmd)
	profileCmd.AddCommand(profileEditCmd)
	profileCmd.AddCommand(profileAvatarCmd)
	profileCmd.AddCommand(profileSearchCmd)
}
