package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pobsd/internal/validate"
)

func validateCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run consistency checks against the games database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, diagnostics, err := loadDatabase()
			if err != nil {
				return err
			}
			report, err := validate.Run(database, diagnostics)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}

func printReport(out io.Writer, report *validate.Report, asJSON bool) error {
	errorIssues := report.Errors()
	warnIssues := report.Warnings()

	if asJSON {
		if err := printJSON(out, report); err != nil {
			return err
		}
	} else {
		if len(errorIssues) == 0 && len(warnIssues) == 0 {
			fmt.Fprintln(out, "No issues found.")
			return nil
		}
		if len(errorIssues) > 0 {
			fmt.Fprintf(out, "Errors (%d):\n", len(errorIssues))
			printIssues(out, errorIssues)
		}
		if len(warnIssues) > 0 {
			if len(errorIssues) > 0 {
				fmt.Fprintln(out, "")
			}
			fmt.Fprintf(out, "Warnings (%d):\n", len(warnIssues))
			printIssues(out, warnIssues)
		}
	}

	if len(errorIssues) > 0 {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []validate.Issue) {
	for _, issue := range issues {
		location := issue.Game
		if issue.Line > 0 {
			location = fmt.Sprintf("line %d", issue.Line)
			if issue.Game != "" {
				location = fmt.Sprintf("%s (line %d)", issue.Game, issue.Line)
			}
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", location, issue.Message, issue.Code)
	}
}
