package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ingo-eichhorst/testselect/pkg/types"
	"github.com/ingo-eichhorst/testselect/pkg/version"
)

var (
	verbose    bool
	jsonOutput bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:     "tsel",
	Short:   "Intelligent test selection and comparison engine",
	Long:    "tsel scores, selects, compares, and clusters tests by relevance so a CI\nrun or a local feedback loop only runs the tests worth running.",
	Version: version.Version,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output results as JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to .tselrc.yml project config file")
	rootCmd.SilenceErrors = true
}

// Execute runs the root command; on error it prints the error to stderr and
// exits with code 1. ExitError is handled specially: its Code is used as the
// exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var exitErr *types.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
