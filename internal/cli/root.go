package cli

import (
	"log/slog"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"phototag/internal/config"
)

func newRootCmd(f *Factory) *cobra.Command {
	var noWrite bool

	cmd := &cobra.Command{
		Use:           "phototag",
		Short:         "Tag images and filter collections by tag",
		SilenceErrors: true,
		SilenceUsage:  true,
		Long: heredoc.Doc(`
			phototag keeps a vocabulary of free-text tags, reports the tag state
			of a selection of images and applies tag changes to many images at
			once, writing each image's tags into its IPTC keywords.

			Settings default to the PHOTOTAG_* environment variables.
		`),
		Example: heredoc.Doc(`
			$ phototag tags add Beach Sunset
			$ phototag apply --tag Beach --untag Sunset photos/*.jpg
			$ phototag states --scan photos/*.jpg
			$ phototag filter --tag Beach --negate photos/*.jpg
		`),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("no-write") {
				f.Config.WriteMetadata = !noWrite
			}
			logger, err := config.NewLogger(cmd.ErrOrStderr(), f.Config.LogLevel, f.Config.LogFormat)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&f.Config.DBPath, "db", f.Config.DBPath, "SQLite database path")
	flags.StringVar(&f.Config.Store, "store", f.Config.Store, "image tag store (sqlite, bolt, memory)")
	flags.StringVar(&f.Config.BoltPath, "bolt", f.Config.BoltPath, "bbolt file used by --store bolt")
	flags.BoolVar(&noWrite, "no-write", false, "do not write tags into image files")
	flags.StringVar(&f.Config.LogLevel, "loglevel", f.Config.LogLevel, "set the log level (debug, info, warn, error)")
	flags.StringVarP(&f.Config.LogFormat, "logformat", "f", f.Config.LogFormat, "set the log format (text, json)")
	flags.BoolVar(&f.NoColor, "no-color", false, "disable coloured output")

	cmd.AddCommand(
		newTagsCmd(f),
		newStatesCmd(f),
		newApplyCmd(f),
		newFilterCmd(f),
		newResetCmd(f),
	)
	return cmd
}
