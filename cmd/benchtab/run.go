package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"benchtab/internal/bench"
	"benchtab/internal/history"
	"benchtab/internal/procs"
	"benchtab/internal/telemetry"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// newStoreFunc allows mocking the history store in tests.
var newStoreFunc = func(path string) (history.Store, error) {
	return history.NewSQLiteStore(path)
}

var (
	regressionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	improvementStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

type runOptions struct {
	sizes     []int64
	duration  time.Duration
	unitName  string
	csvPath   string
	save      bool
	compare   bool
	threshold float64
	progress  bool
}

func bindRunFlags(fs *pflag.FlagSet, o *runOptions) {
	fs.Int64SliceVar(&o.sizes, "sizes", []int64{16, 64, 256, 1024}, "Problem sizes to sweep")
	fs.DurationVar(&o.duration, "duration", time.Second, "Target measurement duration per pair")
	fs.StringVarP(&o.unitName, "unit", "u", "ms", "Display unit (s, ms, us, ns, items, kitems, mitems, gitems)")
	fs.StringVar(&o.csvPath, "csv", "", "Also write the table as CSV to this file")
	fs.BoolVar(&o.save, "save", false, "Save results to history")
	fs.BoolVar(&o.compare, "compare", false, "Compare against the last saved run")
	fs.Float64Var(&o.threshold, "threshold", 10.0, "Percentage threshold for regression warnings")
	fs.BoolVar(&o.progress, "progress", true, "Print per-pair progress to stderr")
}

func newRunCmd() *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [procedures...]",
		Short: "Measure procedures across problem sizes and print the result table",
		Long: `Runs the timing protocol for every selected procedure under every
problem size, procedure by procedure, and prints the completed table.
Without arguments all registered procedures run; see 'benchtab list'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// config file / env fill in flags the user left untouched
			if !cmd.Flags().Changed("duration") && viper.IsSet("duration") {
				o.duration = viper.GetDuration("duration")
			}
			if !cmd.Flags().Changed("unit") && viper.IsSet("unit") {
				o.unitName = viper.GetString("unit")
			}
			if !cmd.Flags().Changed("sizes") && viper.IsSet("sizes") {
				o.sizes = o.sizes[:0]
				for _, s := range viper.GetIntSlice("sizes") {
					o.sizes = append(o.sizes, int64(s))
				}
			}
			return runSweep(cmd, args, o)
		},
	}
	bindRunFlags(cmd.Flags(), o)
	return cmd
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func runSweep(cmd *cobra.Command, args []string, o *runOptions) error {
	unit, err := bench.ParseUnit(o.unitName)
	if err != nil {
		return err
	}

	selected, err := selectProcedures(args)
	if err != nil {
		return err
	}

	cfgs := make([]bench.Config, len(o.sizes))
	for i, s := range o.sizes {
		cfgs[i] = bench.Config(s)
	}

	metrics := telemetry.NewMetrics()
	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		return err
	}
	if addr := viper.GetString("metrics_addr"); addr != "" {
		go func() {
			if err := telemetry.StartMetricsServer(addr, registry); err != nil {
				slog.Error("metrics server stopped", "addr", addr, "error", err)
			}
		}()
	}

	// interrupts abort before the next pair, never mid-measurement
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := bench.NewRunner(o.duration)
	if o.progress {
		runner.Observer = func(proc string, cfg bench.Config) {
			fmt.Fprintf(cmd.ErrOrStderr(), "measuring %s (cfg=%s)\n", proc, cfg)
		}
	}

	start := time.Now()
	table, err := runner.Sweep(ctx, selected, cfgs)
	if err != nil {
		return fmt.Errorf("sweep aborted: %w", err)
	}
	metrics.SweepDuration.Observe(time.Since(start).Seconds())

	for i, name := range table.Procedures() {
		for j := range table.Configs() {
			if m, ok := table.Measurement(i, j); ok {
				metrics.ObservePair(name, "measured")
				metrics.Repetitions.Observe(float64(m.Reps))
			} else {
				metrics.ObservePair(name, "skipped")
			}
		}
	}

	reporter := bench.NewReporter(unit)
	fmt.Fprint(cmd.OutOrStdout(), reporter.Render(table))

	if o.csvPath != "" {
		f, err := os.Create(o.csvPath)
		if err != nil {
			return fmt.Errorf("failed to create CSV file: %w", err)
		}
		defer f.Close()
		if err := reporter.WriteCSV(f, table); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "CSV written to %s\n", o.csvPath)
	}

	if o.save || o.compare {
		return persistAndCompare(cmd, table, o)
	}
	return nil
}

func selectProcedures(args []string) ([]bench.Procedure, error) {
	if len(args) == 0 {
		return procs.All(), nil
	}
	out := make([]bench.Procedure, 0, len(args))
	for _, name := range args {
		p, ok := procs.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown procedure %q (see 'benchtab list')", name)
		}
		out = append(out, p)
	}
	return out, nil
}

func persistAndCompare(cmd *cobra.Command, table *bench.Table, o *runOptions) error {
	store, err := newStoreFunc(historyPath())
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	run := history.Snapshot(table, o.duration)

	if o.compare {
		prev, err := store.LoadLatest()
		if err != nil {
			return fmt.Errorf("failed to load previous run: %w", err)
		}
		if prev == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "No previous run to compare against.")
		} else {
			printComparison(cmd, history.Compare(*prev, run), o.threshold)
		}
	}

	if o.save {
		id, err := store.Save(run)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved run %d (%d cells)\n", id, len(run.Cells))
	}
	return nil
}

func historyPath() string {
	if p := viper.GetString("history_path"); p != "" {
		return p
	}
	return ".benchtab/history.db"
}

func printComparison(cmd *cobra.Command, comps []history.Comparison, threshold float64) {
	if len(comps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No overlapping pairs to compare.")
		return
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PROCEDURE\tCFG\tNS/OP\tPREV\tDIFF %\tSTATUS")
	for _, c := range comps {
		status := "ok"
		switch {
		case c.Regression(threshold):
			status = regressionStyle.Render("slower")
		case c.Improvement(threshold):
			status = improvementStyle.Render("faster")
		}
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%+.2f%%\t%s\n",
			c.Procedure, c.Config, c.CurrNsPerOp, c.PrevNsPerOp, c.DiffPct, status)
	}
	w.Flush()
}
