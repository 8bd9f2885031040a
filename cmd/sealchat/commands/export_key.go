package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// export-key prints the armored public keys that register publishes.
func exportKeyCmd() *cobra.Command {
	var which string
	cmd := &cobra.Command{
		Use:   "export-key",
		Short: "Print your public keys as PEM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			pub, err := appCtx.Identity.ExportPublicIdentity(passphrase)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch which {
			case "encryption":
				fmt.Fprint(out, pub.EncryptionKey.Armor)
			case "signing":
				fmt.Fprint(out, pub.SigningKey.Armor)
			case "both":
				fmt.Fprint(out, pub.EncryptionKey.Armor)
				fmt.Fprint(out, pub.SigningKey.Armor)
			default:
				return fmt.Errorf("--key must be encryption, signing or both, got %q", which)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&which, "key", "both", "encryption, signing or both")
	return cmd
}
