// Package config centralizes viper-backed settings for the harness CLI.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings is the typed view of the configuration a sweep needs.
type Settings struct {
	Duration    time.Duration
	Unit        string
	Sizes       []int64
	HistoryPath string
	MetricsAddr string
	LogFile     string
	Verbose     bool
}

// Load initializes configuration from an optional file, the environment
// and defaults. Flags bound by the CLI take precedence over all of them.
func Load(cfgFile string) {
	// explicit .env loading; a missing file is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".benchtab")
	}

	viper.SetEnvPrefix("BENCHTAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	SetDefaults()

	// a missing config file is not an error, defaults apply
	_ = viper.ReadInConfig()
}

// SetDefaults installs the documented defaults. Split out so tests can
// reset viper state without touching the filesystem.
func SetDefaults() {
	viper.SetDefault("duration", time.Second)
	viper.SetDefault("unit", "ms")
	viper.SetDefault("sizes", []int64{16, 64, 256, 1024})
	viper.SetDefault("history_path", ".benchtab/history.db")
	viper.SetDefault("metrics_addr", "")
	viper.SetDefault("log_file", "")
	viper.SetDefault("verbose", false)
}

// Current reads the settled values back out of viper.
func Current() Settings {
	sizes := viper.GetIntSlice("sizes")
	out := Settings{
		Duration:    viper.GetDuration("duration"),
		Unit:        viper.GetString("unit"),
		Sizes:       make([]int64, len(sizes)),
		HistoryPath: viper.GetString("history_path"),
		MetricsAddr: viper.GetString("metrics_addr"),
		LogFile:     viper.GetString("log_file"),
		Verbose:     viper.GetBool("verbose"),
	}
	for i, s := range sizes {
		out.Sizes[i] = int64(s)
	}
	return out
}
