package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sealchat/internal/app"
	"sealchat/internal/config"
	"sealchat/internal/logging"
)

var (
	configFile string
	passphrase string
	appCtx     *app.App
)

// Execute runs the sealchat CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRoot().ExecuteContext(ctx)
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "sealchat",
		Short:        "End-to-end encrypted chat CLI",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.LoadConfig(configFile)
			if err != nil {
				return err
			}
			if err := bindFlags(cmd, v); err != nil {
				return err
			}
			cfg, err := config.ParseConfig(v)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.Logger)
			if err != nil {
				return err
			}
			appCtx, err = app.New(cfg, log)
			if err != nil {
				return err
			}
			if passphrase == "" {
				passphrase = os.Getenv("SEALCHAT_PASSPHRASE")
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appCtx != nil {
				appCtx.Close()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default ./config.yaml or ~/.sealchat/config.yaml)")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting your keys (or SEALCHAT_PASSPHRASE)")
	pf.String("home", "", "key and state directory (default ~/.sealchat)")
	pf.String("relay", "", "relay base URL (e.g. http://127.0.0.1:8080)")
	pf.Bool("hybrid", false, "seal message bodies with a wrapped content key (no length limit)")
	pf.Bool("debug", false, "development logging at debug level")

	root.AddCommand(
		initCmd(),
		fingerprintCmd(),
		exportKeyCmd(),
		registerCmd(),
		loginCmd(),
		chatCmd(),
		chatsCmd(),
		sendCmd(),
		recvCmd(),
		watchCmd(),
		deleteCmd(),
	)
	return root
}

// bindFlags lets explicitly set flags override config file and environment.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	pf := cmd.Flags()
	for key, flag := range map[string]string{
		"client.home":          "home",
		"client.relay_url":     "relay",
		"crypto.hybrid_bodies": "hybrid",
		"logger.development":   "debug",
	} {
		f := pf.Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "bind --%s", flag)
		}
	}
	if f := pf.Lookup("debug"); f != nil && f.Changed {
		v.Set("logger.level", "debug")
	}
	return nil
}

func requirePassphrase() error {
	if passphrase == "" {
		return errors.New("passphrase required (-p or SEALCHAT_PASSPHRASE)")
	}
	return nil
}
