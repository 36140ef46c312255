package main

import (
	"fmt"
	"os"

	"benchtab/internal/config"
	"benchtab/internal/telemetry"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exit = os.Exit
var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "benchtab",
	Short: "Micro-benchmark harness with tabular reporting",
	Long: `benchtab measures the wall-clock cost of small procedures across a
sweep of problem sizes. Each (procedure, size) pair is warmed up, probed
for a per-call estimate, then run enough times to fill a target duration.
Results come out as an aligned table or CSV in time-per-run or throughput
units, and can be saved for regression comparison between runs.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. It is called once from main.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n", r)
			exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.benchtab.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "Append JSON logs to this file")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	config.Load(cfgFile)
	telemetry.InitLogger(viper.GetBool("verbose"), viper.GetString("log_file"))
}
