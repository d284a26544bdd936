// Package update merges fresh ledgers into a workbook.
package update

import (
	"fmt"

	"fjacquet/conciliation/cmd/common"
	"fjacquet/conciliation/cmd/root"
	"fjacquet/conciliation/internal/models"

	"github.com/spf13/cobra"
)

var (
	sourceWorkbook string
	bankFiles      []string
	settlementFile string
)

// Cmd represents the update command
var Cmd = &cobra.Command{
	Use:   "update",
	Short: "Replace ledgers with fresh data, keeping the buckets that still apply",
	Long: `Replace the ledgers of a workbook with those of another workbook or with a
newly read bank statement and/or settlement. Buckets whose rows are all
found again, unchanged and unambiguous, keep their id; the rest are dropped.`,
	RunE: updateFunc,
}

func init() {
	Cmd.Flags().StringVar(&sourceWorkbook, "workbook", "", "Workbook directory holding the new ledgers")
	Cmd.Flags().StringSliceVar(&bankFiles, "bank", nil, "New bank statement files or directories")
	Cmd.Flags().StringVar(&settlementFile, "settlement", "", "New settlement workbook (.xlsx or .xls)")
}

func updateFunc(cmd *cobra.Command, args []string) error {
	dir, err := root.RequireInput("workbook directory")
	if err != nil {
		return err
	}
	if sourceWorkbook != "" && (len(bankFiles) > 0 || settlementFile != "") {
		return fmt.Errorf("--workbook cannot be combined with --bank or --settlement")
	}

	c := root.AppContainer
	var incoming models.Ledgers
	if sourceWorkbook != "" {
		src, err := c.OpenSession(sourceWorkbook)
		if err != nil {
			return err
		}
		for _, k := range models.Kinds {
			if l := src.Ledger(k); l != nil {
				incoming.Set(l)
			}
		}
	} else {
		if incoming, err = common.ReadSources(c, bankFiles, settlementFile); err != nil {
			return err
		}
	}
	if len(incoming.Present()) == 0 {
		return fmt.Errorf("nothing to update: give --workbook, --bank or --settlement")
	}

	s, err := c.OpenSession(dir)
	if err != nil {
		return err
	}
	res, err := s.Update(incoming)
	if err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "buckets kept: %d\n", len(res.Kept))
	fmt.Fprintf(out, "buckets dropped: %s\n", common.FormatIDs(res.Dropped))
	return nil
}
