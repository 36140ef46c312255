package main

import (
	"fmt"
	"text/tabwriter"

	"benchtab/internal/procs"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered procedures",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION")
			for _, info := range procs.Describe() {
				fmt.Fprintf(w, "%s\t%s\n", info.Name, info.Description)
			}
			return w.Flush()
		},
	}
}

func init() {
	rootCmd.AddCommand(newListCmd())
}
