// Package check audits the buckets of a workbook and prints the summary.
package check

import (
	"fjacquet/conciliation/cmd/root"
	"fjacquet/conciliation/internal/report"

	"github.com/spf13/cobra"
)

var (
	format string
	strict bool
)

// Cmd represents the check command
var Cmd = &cobra.Command{
	Use:   "check",
	Short: "Verify buckets and print the reconciliation summary",
	Long: `Check the bucket invariants and print how much money is unmatched in each
ledger and how much is matched on each side. A corrupt bucket state is
reported as an error.`,
	RunE: checkFunc,
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "Output format: text, json or yaml")
	Cmd.Flags().BoolVar(&strict, "strict", false, "Fail when matched money does not balance")
}

func checkFunc(cmd *cobra.Command, args []string) error {
	dir, err := root.RequireInput("workbook directory")
	if err != nil {
		return err
	}
	s, err := root.AppContainer.OpenSession(dir)
	if err != nil {
		return err
	}

	r, err := s.Check()
	if err != nil {
		return err
	}
	doc := report.NewDocument(r, s.Currency())
	out, err := root.AppContainer.GetReportGenerator().Generate(doc, format)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return err
	}
	if strict && !doc.Balanced {
		return errUnbalanced
	}
	return nil
}
