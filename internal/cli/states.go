package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"

	"phototag/internal/application/projections"
	"phototag/internal/domain/tag"
)

func newStatesCmd(f *Factory) *cobra.Command {
	var scan bool

	cmd := &cobra.Command{
		Use:   "states <image> [<image>...]",
		Short: "Show the tag state of a selection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := f.Runtime()
			if err != nil {
				return err
			}
			if scan {
				if err := scanImages(f, rt, args); err != nil {
					return err
				}
			}
			deps := projections.GetTagStatesDeps{Session: rt.Session, Store: rt.ImageTags}
			if rt.KnownTags != nil {
				deps.KnownTags = rt.KnownTags
			}
			res, err := projections.QueryGetTagStates(f.Context, projections.GetTagStatesQuery{Selection: args}, deps)
			if err != nil {
				return err
			}
			return printStates(cmd, f.Colors(), res)
		},
	}
	cmd.Flags().BoolVar(&scan, "scan", false, "read keywords from the files first")
	return cmd
}

func printStates(cmd *cobra.Command, colors aurora.Aurora, res projections.GetTagStatesResult) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 1, ' ', 0)
	for _, row := range res.Tags {
		// The coloured state goes last: escape codes would skew tabwriter's widths.
		fmt.Fprintf(tw, "%s\t%d/%d\t%s\n", row.Name, row.Count, res.Total, colorState(colors, row.State))
	}
	return tw.Flush()
}

func colorState(colors aurora.Aurora, st tag.TriState) aurora.Value {
	switch st {
	case tag.Checked:
		return colors.Green(st)
	case tag.Mixed:
		return colors.Yellow(st)
	default:
		return colors.Faint(st)
	}
}
