package main

import (
	"fmt"
	"text/tabwriter"

	"benchtab/internal/history"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect saved sweep runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStoreFunc(historyPath())
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer store.Close()

			runs, err := store.LoadAll()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved runs.")
				return nil
			}
			if limit > 0 && len(runs) > limit {
				runs = runs[len(runs)-limit:]
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTARGET MS\tCELLS")
			for _, r := range runs {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.TargetMs, len(r.Cells))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Show only the most recent N runs")

	cmd.AddCommand(newHistoryCompareCmd())
	return cmd
}

func newHistoryCompareCmd() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the two most recent saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStoreFunc(historyPath())
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer store.Close()

			runs, err := store.LoadAll()
			if err != nil {
				return err
			}
			if len(runs) < 2 {
				return fmt.Errorf("need at least two saved runs, have %d", len(runs))
			}

			prev, curr := runs[len(runs)-2], runs[len(runs)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "Comparing run %d against run %d\n", curr.ID, prev.ID)
			printComparison(cmd, history.Compare(prev, curr), threshold)
			return nil
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 10.0, "Percentage threshold for regression warnings")
	return cmd
}

func init() {
	rootCmd.AddCommand(newHistoryCmd())
}
