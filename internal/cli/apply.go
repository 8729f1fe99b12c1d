package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"phototag/internal/application/orchestrators"
	"phototag/internal/domain/tag"
)

func newApplyCmd(f *Factory) *cobra.Command {
	var cfg struct {
		tags     []string
		untags   []string
		scan     bool
		progress bool
	}

	cmd := &cobra.Command{
		Use:   "apply [--tag <tag>]... [--untag <tag>]... <image> [<image>...]",
		Short: "Add and remove tags on a selection of images",
		Long: heredoc.Doc(`
			Apply tag changes to every image in order and write each image's
			resulting tags into its IPTC keywords.

			An image whose file cannot be written is reported as failed and
			dropped from the tag store. Interrupting the command stops before
			the next image; images already written keep their new tags.
		`),
		Example: heredoc.Doc(`
			Tag two images with "Cat" and remove "Dog":

			$ phototag apply --tag Cat --untag Dog a.jpg b.jpg
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actions := make([]tag.Action, 0, len(cfg.tags)+len(cfg.untags))
			for _, n := range cfg.tags {
				actions = append(actions, tag.Action{Name: n, Desired: tag.Checked})
			}
			for _, n := range cfg.untags {
				actions = append(actions, tag.Action{Name: n, Desired: tag.Unchecked})
			}
			if len(actions) == 0 {
				return fmt.Errorf("%w: give at least one --tag or --untag", tag.ErrInvalidAction)
			}

			rt, err := f.Runtime()
			if err != nil {
				return err
			}
			if cfg.scan {
				if err := scanImages(f, rt, args); err != nil {
					return err
				}
			}

			input := orchestrators.ApplyTagsInput{Selection: args, Actions: actions}
			if cfg.progress {
				input.OnProgress = func(p orchestrators.Progress) {
					fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] %s %s\n", p.Index, p.Total, p.Outcome, p.ImageID)
				}
			}
			deps := orchestrators.ApplyTagsDeps{
				Session: rt.Session,
				Store:   rt.ImageTags,
				Writer:  rt.Writer,
				Perf:    rt.Perf,
			}
			if rt.KnownTags != nil {
				deps.KnownTags = rt.KnownTags
			}
			res, err := orchestrators.ExecuteApplyTags(f.Context, input, deps)
			if err != nil {
				return err
			}
			printApplyResult(cmd, f, res)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&cfg.tags, "tag", nil, "tag to add (repeatable)")
	cmd.Flags().StringArrayVar(&cfg.untags, "untag", nil, "tag to remove (repeatable)")
	cmd.Flags().BoolVar(&cfg.scan, "scan", false, "read keywords from the files first")
	cmd.Flags().BoolVar(&cfg.progress, "progress", false, "report each image on stderr")
	return cmd
}

func printApplyResult(cmd *cobra.Command, f *Factory, res orchestrators.ApplyTagsResult) {
	colors := f.Colors()
	fmt.Fprint(cmd.OutOrStdout(), colors.Green(heredoc.Docf(`
		Run:       %s
		Processed: %d
	`, res.RunID, len(res.Processed))).String())
	for _, fail := range res.Failures {
		fmt.Fprint(cmd.OutOrStdout(), colors.Red(fmt.Sprintf("Failed:    %s (%s)\n", fail.ImageID, fail.Reason)).String())
	}
	if res.CancelledEarly {
		fmt.Fprint(cmd.OutOrStdout(), colors.Yellow("Cancelled before the remaining images.\n").String())
	}
}
