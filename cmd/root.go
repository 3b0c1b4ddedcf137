package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/halvard/kb/internal/gh"
	"github.com/halvard/kb/internal/git"
	kbstore "github.com/halvard/kb/internal/store"
	"github.com/halvard/kb/internal/watch"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "kb",
	Short: "Personal GitHub repository knowledge base",
	Long: `kb is a file-backed catalog of GitHub repositories and documents:
  - bookmark repositories with tags, notes, and exploration status
  - track releases and commits of watched repositories
  - classify release notes and changelogs into change categories
  - manage PDFs with size-based token estimates

All state lives as plain JSON and text files under the kb root directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if hint := hintFor(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}

// hintFor maps the error taxonomy onto actionable guidance. Every error in
// the taxonomy is recoverable; none should look like a crash.
func hintFor(err error) string {
	switch {
	case errors.Is(err, kbstore.ErrNotInStore):
		return "Add it first: kb add <owner/repo>"
	case errors.Is(err, watch.ErrNotWatched):
		return "Start watching: kb changes watch <owner/repo>"
	case errors.Is(err, git.ErrNotCloned):
		return "Clone it first: kb explore clone <owner/repo>"
	case errors.Is(err, gh.ErrRateLimited):
		return "Set the GITHUB_TOKEN environment variable for higher limits."
	default:
		return ""
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/kb/config.toml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".config", "kb")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	// Set defaults
	defaultRoot, err := kbstore.DefaultRoot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	viper.SetDefault("kb.root", defaultRoot)
	viper.SetDefault("limits.key_files", 50)
	viper.SetDefault("limits.release_lines", 50)
	viper.SetDefault("limits.findings", 10)
	viper.SetDefault("limits.commits", 20)
	viper.SetDefault("limits.releases", 10)
	viper.SetDefault("timeouts.api_seconds", 10)
	viper.SetDefault("timeouts.git_seconds", 30)
	viper.SetDefault("timeouts.log_seconds", 60)
	viper.SetDefault("timeouts.clone_seconds", 300)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
