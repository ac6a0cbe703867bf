package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/mcpkit-labs/mcpkit/internal/boilerplate"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(frameworksCmd)
}

var frameworksCmd = &cobra.Command{
	Use:   "frameworks",
	Short: "List frameworks available to create",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := boilerplate.Names()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tVERSION\tTITLE")
		for _, name := range names {
			fw, err := boilerplate.Lookup(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", fw.Name, fw.SemVer(), fw.Title)
		}
		return w.Flush()
	},
}
