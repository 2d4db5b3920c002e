package cmd

import (
	"strings"

	"github.com/ahmednagradev/ansnips/pkg/service"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Direct message commands",
	Long: `Send and read direct messages. Conversations can be named by room id
or by the other person's username.`,
}

var chatRoomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List your conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewChatService(a).Rooms(cmd.Context(), page())
	},
}

var chatOpenCmd = &cobra.Command{
	Use:   "open <username|user-id>",
	Short: "Open (or create) a conversation with a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewChatService(a).Open(cmd.Context(), args[0])
	},
}

var chatSendCmd = &cobra.Command{
	Use:   "send <room-id|username> <text...>",
	Short: "Send a message",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewChatService(a).Send(cmd.Context(), args[0], strings.Join(args[1:], " "))
	},
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history <room-id|username>",
	Short: "Show a conversation and mark it read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewChatService(a).History(cmd.Context(), args[0], page())
	},
}

var chatDeleteCmd = &cobra.Command{
	Use:   "delete <message-id>",
	Short: "Delete one of your messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewChatService(a).DeleteMessage(cmd.Context(), args[0])
	},
}

var chatWatchCmd = &cobra.Command{
	Use:   "watch <room-id|username>",
	Short: "Print new messages as they arrive (Ctrl+C to stop)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := connect()
		if err != nil {
			return err
		}
		return service.NewChatService(a).Watch(cmd.Context(), args[0])
	},
}

func init() {
	addPageFlags(chatRoomsCmd, chatHistoryCmd)

	chatCmd.AddCommand(chatRoomsCmd)
	chatCmd.AddCommand(chatOpenCmd)
	chatCmd.AddCommand(chatSendCmd)
	chatCmd.AddCommand(chatHistoryCmd)
	chatCmd.AddCommand(chatDeleteCmd)
	chatCmd.AddCommand(chatWatchCmd)
}
