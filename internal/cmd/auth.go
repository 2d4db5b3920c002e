package cmd

import (
	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/service"
	"github.com/spf13/cobra"
)

var (
	authEmail    string
	authName     string
	authUsername string
	authPassword string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Create an account and manage your ansnips session",
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new ansnips account",
	Long:  "Register a new account. Missing fields are prompted for.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewAuthService(a).SignUp(cmd.Context(), api.SignUpRequest{
			Email:    authEmail,
			Name:     authName,
			Username: authUsername,
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to ansnips",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewAuthService(a).Login(cmd.Context(), authEmail, authPassword)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from ansnips",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewAuthService(a).Logout(cmd.Context())
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Display the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewAuthService(a).WhoAmI(cmd.Context())
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a short-lived JWT for the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewAuthService(a).Token(cmd.Context())
	},
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewAuthService(a).ChangePassword(cmd.Context())
	},
}

func init() {
	signupCmd.Flags().StringVar(&authEmail, "email", "", "Email address")
	signupCmd.Flags().StringVar(&authName, "name", "", "Display name")
	signupCmd.Flags().StringVar(&authUsername, "username", "", "Username")

	loginCmd.Flags().StringVar(&authEmail, "email", "", "Email address")
	loginCmd.Flags().StringVar(&authPassword, "password", "", "Password (prompted when omitted)")

	authCmd.AddCommand(signupCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)
	authCmd.AddCommand(tokenCmd)
	authCmd.AddCommand(passwordCmd)
}
