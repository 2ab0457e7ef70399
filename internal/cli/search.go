package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Proton-105/podcast-bot/internal/listennotes"
	"github.com/Proton-105/podcast-bot/internal/podcast"
	"github.com/Proton-105/podcast-bot/pkg/config"
	"github.com/Proton-105/podcast-bot/pkg/logger"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search podcasts the way the bot does and print the candidates",
		Example: `  podcastbot search Serial
  podcastbot search "hard fork"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := opts.gateway(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			candidates, err := gw.Search(cmd.Context(), strings.Join(args, " "))
			if errors.Is(err, podcast.ErrNoResults) {
				fmt.Fprintln(cmd.OutOrStdout(), "no podcasts found")
				return nil
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE")
			for _, c := range candidates {
				fmt.Fprintf(w, "%s\t%s\n", c.ID, c.Title)
			}
			return w.Flush()
		},
	}
}

func newEpisodesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "episodes <podcast-id>",
		Short: "List the playable episodes of a podcast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := opts.gateway(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			episodes, err := gw.ListEpisodes(cmd.Context(), args[0])
			if errors.Is(err, podcast.ErrNoResults) {
				fmt.Fprintln(cmd.OutOrStdout(), "no episodes found")
				return nil
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TITLE\tAUDIO")
			for _, e := range episodes {
				fmt.Fprintf(w, "%s\t%s\n", e.Title, e.AudioURL)
			}
			return w.Flush()
		},
	}
}

// gateway builds a Listen Notes gateway from the listennotes section alone,
// so lookups work without a bot token.
func (o *rootOptions) gateway(logOut io.Writer) (*podcast.Gateway, error) {
	cfg, _, err := o.read()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg.ListenNotes); err != nil {
		return nil, err
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	log, _, _ := logger.New(logger.Options{Level: max(level, slog.LevelWarn), Format: cfg.Log.Format, Output: logOut})

	return newGateway(cfg.ListenNotes, log), nil
}

func newGateway(cfg config.ListenNotesConfig, log *slog.Logger) *podcast.Gateway {
	client := listennotes.NewClient(listennotes.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Log:     log,
	})

	return podcast.NewGateway(client, podcast.SearchOptions{
		Languages:  cfg.Languages,
		OnlyIn:     cfg.OnlyIn,
		SortByDate: cfg.SortByDate,
		PageSize:   cfg.PageSize,
	}, log)
}
