package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// chat <peer-email>: create or fetch the chat with a peer.
func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <peer-email>",
		Short: "Open the chat with a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := appCtx.Chats.OpenChat(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chat %s\n", c.ID)
			return nil
		},
	}
}

func chatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chats",
		Short: "List your chats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			me, err := appCtx.Accounts.Current()
			if err != nil {
				return err
			}
			chats, err := appCtx.Chats.ListChats(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range chats {
				peer, _ := c.Peer(me.UserID)
				fmt.Fprintf(cmd.OutOrStdout(), "%s  with %s  since %s\n", c.ID, peer, formatTime(c.CreatedAt))
			}
			return nil
		},
	}
}
