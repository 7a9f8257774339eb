// File: cmd/steps.go
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/cmsbehave/internal/steps"
)

func newStepsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List the step phrases cmsbehave understands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, d := range steps.Definitions() {
				fmt.Fprintf(w, "%s\t%s\n", d.Pattern, d.Help)
			}
			return w.Flush()
		},
	}
}
