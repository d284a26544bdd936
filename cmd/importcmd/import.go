// Package importcmd creates a workbook from a bank statement and a settlement.
package importcmd

import (
	"fmt"

	"fjacquet/conciliation/cmd/common"
	"fjacquet/conciliation/cmd/root"
	"fjacquet/conciliation/internal/fileutils"
	"fjacquet/conciliation/internal/logging"

	"github.com/spf13/cobra"
)

var (
	bankFiles      []string
	settlementFile string
	overwrite      bool
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Create a workbook from a bank statement and a settlement",
	Long: `Read a bank statement (.xlsx, .xls, .csv or CAMT.053 .xml) and a
settlement workbook (.xlsx or .xls), then save the three ledgers, unbucketed, as a new workbook.`,
	RunE: importFunc,
}

func init() {
	Cmd.Flags().StringSliceVar(&bankFiles, "bank", nil, "Bank statement files or directories, read in order")
	Cmd.Flags().StringVar(&settlementFile, "settlement", "", "Settlement workbook (.xlsx or .xls)")
	Cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing workbook")
}

func importFunc(cmd *cobra.Command, args []string) error {
	dir := root.SharedFlags.Output
	if dir == "" {
		return fmt.Errorf("--output is required: workbook directory to create")
	}
	if len(bankFiles) == 0 && settlementFile == "" {
		return fmt.Errorf("nothing to import: give --bank and/or --settlement")
	}

	c := root.AppContainer
	s := c.NewSession(dir)
	if fileutils.DirectoryExists(dir) && !overwrite {
		if _, err := c.OpenSession(dir); err == nil {
			return fmt.Errorf("workbook %s already exists, use --overwrite or the update command", dir)
		}
	}

	ledgers, err := common.ReadSources(c, bankFiles, settlementFile)
	if err != nil {
		return err
	}
	if err := s.Import(ledgers); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}

	for _, k := range ledgers.Present() {
		root.Log.Info("Ledger imported",
			logging.F(logging.FieldKind, k.String()),
			logging.F(logging.FieldCount, ledgers.Get(k).Len()))
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows\n", k, ledgers.Get(k).Len())
	}
	if !s.IsComplete() {
		fmt.Fprintf(cmd.OutOrStdout(), "workbook is incomplete, missing ledgers must be imported before matching\n")
	}
	return nil
}

