package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"phototag/internal/application/orchestrators"
)

func newResetCmd(f *Factory) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget every stored image tag; files and known tags are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := f.Runtime()
			if err != nil {
				return err
			}
			if err := orchestrators.ExecuteResetTags(f.Context, orchestrators.ResetTagsDeps{Session: rt.Session, Store: rt.ImageTags}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Tag state reset.")
			return nil
		},
	}
}
