package cli

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"phototag/internal/application/orchestrators"
)

func newTagsCmd(f *Factory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage the tag vocabulary",
	}
	cmd.AddCommand(tagsListCmd(f), tagsAddCmd(f), tagsRemoveCmd(f))
	return cmd
}

func tagsListCmd(f *Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := f.Runtime()
			if err != nil {
				return err
			}
			for _, name := range rt.Session.Vocabulary.Sorted() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func tagsAddCmd(f *Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "add <tag> [<tag>...]",
		Short: "Create tags",
		Long: heredoc.Doc(`
			Create tags. Names are case-sensitive, so "Beach" and "beach" are
			different tags. Creating a tag that already exists fails.
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := f.Runtime()
			if err != nil {
				return err
			}
			deps := orchestrators.CreateTagDeps{Session: rt.Session}
			if rt.KnownTags != nil {
				deps.KnownTags = rt.KnownTags
			}
			for _, name := range args {
				if err := orchestrators.ExecuteCreateTag(f.Context, orchestrators.CreateTagInput{Name: name}, deps); err != nil {
					return fmt.Errorf("add %q: %w", name, err)
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), f.Colors().Green(fmt.Sprintf("Added %d tag(s).\n", len(args))).String())
			return nil
		},
	}
}

func tagsRemoveCmd(f *Factory) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <tag> [<tag>...]",
		Aliases: []string{"remove"},
		Short:   "Remove tags from the vocabulary, every image and the filter",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := f.Runtime()
			if err != nil {
				return err
			}
			deps := orchestrators.RemoveTagsDeps{Session: rt.Session}
			if p := rt.Purger(); p != nil {
				deps.Purger = p
			}
			if rt.KnownTags != nil {
				deps.KnownTags = rt.KnownTags
			}
			res, err := orchestrators.ExecuteRemoveTags(f.Context, orchestrators.RemoveTagsInput{Names: args}, deps)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), heredoc.Docf(`
				Removed:      %v
				Associations: %d
			`, res.Removed, res.Purged))
			return nil
		},
	}
}
