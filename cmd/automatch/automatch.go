// Package automatch runs the automatic matching passes on a workbook.
package automatch

import (
	"fmt"
	"sort"

	"fjacquet/conciliation/cmd/root"
	"fjacquet/conciliation/internal/models"
	"fjacquet/conciliation/pkg/conciliation"

	"github.com/spf13/cobra"
)

var tolerance int64

// Cmd represents the automatch command
var Cmd = &cobra.Command{
	Use:   "automatch",
	Short: "Bucket rows automatically",
	Long: `Run the exact, tolerance and consecutive-pair passes until nothing more
can be matched, then save the workbook.`,
	RunE: automatchFunc,
}

func init() {
	Cmd.Flags().Int64Var(&tolerance, "tolerance", -1, "Tolerance in cents for the second pass (default from configuration)")
}

func automatchFunc(cmd *cobra.Command, args []string) error {
	dir, err := root.RequireInput("workbook directory")
	if err != nil {
		return err
	}

	opts := root.AppContainer.SessionOptions()
	if tolerance >= 0 {
		opts.Matcher.ToleranceCents = tolerance
	}
	s, err := conciliation.Open(dir, opts)
	if err != nil {
		return err
	}

	res, err := s.AutoMatch()
	if err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d buckets created in %d rounds\n", res.Total, res.Rounds)
	names := make([]string, 0, len(res.ByPass))
	for name := range res.ByPass {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %d\n", name, res.ByPass[name])
	}
	fmt.Fprintf(out, "unassigned bank rows: %d\n", len(s.Unassigned(models.Bank)))
	return nil
}
