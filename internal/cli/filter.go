package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"phototag/internal/application/orchestrators"
	"phototag/internal/application/projections"
)

func newFilterCmd(f *Factory) *cobra.Command {
	var cfg struct {
		tags   []string
		negate bool
		hidden bool
		scan   bool
	}

	cmd := &cobra.Command{
		Use:   "filter --tag <tag> [--negate] [<image>...]",
		Short: "Print the images that pass a tag filter",
		Long: heredoc.Doc(`
			An image passes when it carries any of the filter tags; with --negate
			it passes when it carries none. Without filter tags every image passes.

			Without image arguments every image the store tracks is filtered.
			Tags carried by the images are added to the vocabulary first, so a
			filter tag is accepted as long as some image carries it.
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := f.Runtime()
			if err != nil {
				return err
			}
			images, err := resolveImages(f, rt, args)
			if err != nil {
				return err
			}
			if cfg.scan {
				err = scanImages(f, rt, images)
			} else {
				err = discoverTags(f, rt, images)
			}
			if err != nil {
				return err
			}
			if _, err := orchestrators.ExecuteSetFilter(orchestrators.SetFilterInput{
				Tags:   cfg.tags,
				Negate: &cfg.negate,
			}, orchestrators.FilterDeps{Session: rt.Session}); err != nil {
				return err
			}

			res, err := projections.QueryGetFilteredImages(f.Context, projections.GetFilteredImagesQuery{Images: images}, projections.GetFilteredImagesDeps{
				Session: rt.Session,
				Store:   rt.ImageTags,
			})
			if err != nil {
				return err
			}
			out := res.Visible
			if cfg.hidden {
				out = res.Hidden
			}
			for _, id := range out {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&cfg.tags, "tag", nil, "filter tag (repeatable)")
	cmd.Flags().BoolVar(&cfg.negate, "negate", false, "show images without any filter tag")
	cmd.Flags().BoolVar(&cfg.hidden, "hidden", false, "print the filtered-out images instead")
	cmd.Flags().BoolVar(&cfg.scan, "scan", false, "read keywords from the files first")
	return cmd
}
