package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"sealchat/internal/domain"
)

// recv <chat-id>: fetch, decrypt and verify the chat history.
func recvCmd() *cobra.Command {
	var (
		after int64
		limit int
	)
	cmd := &cobra.Command{
		Use:   "recv <chat-id>",
		Short: "Fetch and decrypt messages of a chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			msgs, err := appCtx.Messages.ReceiveMessages(cmd.Context(), passphrase, domain.ChatID(args[0]), after, limit)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				printMessage(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&after, "after", 0, "only messages created after this unix-nano timestamp")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of messages")
	return cmd
}

// watch <chat-id>: stream new messages until interrupted.
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <chat-id>",
		Short: "Stream new messages of a chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			stream, err := appCtx.Messages.Watch(cmd.Context(), passphrase, domain.ChatID(args[0]))
			if err != nil {
				return err
			}
			for m := range stream {
				printMessage(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}
}

func printMessage(w io.Writer, m domain.ReceivedMessage) {
	ts := formatTime(m.CreatedAt)
	switch m.Status {
	case domain.StatusVerified:
		fmt.Fprintf(w, "[%s] %s: %s\n", ts, m.SenderID, m.Plaintext)
	case domain.StatusUntrusted:
		fmt.Fprintf(w, "[%s] %s (UNVERIFIED SIGNATURE): %s\n", ts, m.SenderID, m.Plaintext)
	case domain.StatusOutgoing:
		fmt.Fprintf(w, "[%s] you: <sent %s>\n", ts, m.ID)
	default:
		fmt.Fprintf(w, "[%s] %s: <%s>\n", ts, m.SenderID, m.Status)
	}
}

func formatTime(unixNano int64) string {
	return time.Unix(0, unixNano).Local().Format(time.DateTime)
}
