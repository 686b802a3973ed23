package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ingo-eichhorst/testselect/internal/output"
)

var validateCmd = &cobra.Command{
	Use:          "validate <id...> <directory>",
	Short:        "Check that test identifiers still resolve against the project",
	Args:         cobra.MinimumNArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[len(args)-1])
		if err != nil {
			return fmt.Errorf("cannot resolve path: %w", err)
		}
		if err := validateProject(dir); err != nil {
			return err
		}

		projectCfg, err := loadProjectConfig(dir)
		if err != nil {
			return err
		}
		session, err := newSession(dir, projectCfg)
		if err != nil {
			return err
		}

		testIDs := args[:len(args)-1]
		if len(testIDs) == 1 {
			result, err := session.ValidateTest(cmd.Context(), dir, testIDs[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return output.RenderJSON(cmd.OutOrStdout(), output.BuildValidateReport(result))
			}
			output.NewWriter(os.Stdout).RenderValidate(cmd.OutOrStdout(), result)
			return nil
		}

		results, err := session.ValidateTests(cmd.Context(), dir, testIDs)
		if err != nil {
			return err
		}
		if jsonOutput {
			reports := make([]*output.ValidateReport, len(results))
			for i, r := range results {
				reports[i] = output.BuildValidateReport(r)
			}
			return output.RenderJSON(cmd.OutOrStdout(), reports)
		}
		w := output.NewWriter(os.Stdout)
		for _, r := range results {
			w.RenderValidate(cmd.OutOrStdout(), r)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
