// Package split extracts the expense and income ledgers of a settlement.
package split

import (
	"fmt"

	"fjacquet/conciliation/cmd/root"
	"fjacquet/conciliation/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the split command
var Cmd = &cobra.Command{
	Use:   "split",
	Short: "Split a settlement workbook into expense and income ledgers",
	Long: `Read every property sheet of a settlement workbook (.xlsx or .xls) and write its
expense and income blocks as ledgers of the output workbook.`,
	RunE: splitFunc,
}

func splitFunc(cmd *cobra.Command, args []string) error {
	in, err := root.RequireInput("settlement workbook")
	if err != nil {
		return err
	}
	dir := root.SharedFlags.Output
	if dir == "" {
		return fmt.Errorf("--output is required: workbook directory to write")
	}

	c := root.AppContainer
	ledgers, err := c.GetReader().SplitSettlement(in)
	if err != nil {
		return err
	}
	s := c.NewSession(dir)
	if err := s.Import(ledgers); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}

	for _, k := range models.Counterparts {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows\n", k, ledgers.Get(k).Len())
	}
	return nil
}
