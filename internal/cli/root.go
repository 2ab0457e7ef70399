// Package cli wires the podcastbot commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Proton-105/podcast-bot/pkg/config"
)

type rootOptions struct {
	configPath string
	env        string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "podcastbot",
		Short: "Telegram bot that finds podcasts and sends their episodes as audio",
		Long: `podcastbot searches Listen Notes for podcasts by name, lets the user pick a
podcast and an episode from inline keyboards, and replies with the episode audio.

Configuration comes from configs/<APP_ENV>.yaml and environment variables
(TG_TOKEN, LISTEN_NOTES_API_KEY, LOGLEVEL and the dotted keys with "." replaced by "_").`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./configs/<APP_ENV>.yaml)")
	root.PersistentFlags().StringVar(&opts.env, "env", "", "environment name (default $APP_ENV or development)")

	root.AddCommand(
		newServeCmd(opts),
		newSearchCmd(opts),
		newEpisodesCmd(opts),
		newVersionCmd(),
	)

	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// read loads configuration without validating it.
func (o *rootOptions) read() (*config.Config, *viper.Viper, error) {
	env := o.env
	if env == "" {
		env = config.Env()
	}

	path := o.configPath
	if path == "" {
		path = config.Path(env)
	}

	return config.ReadFile(path, env)
}
