// Package unassigned lists the rows not yet in a bucket.
package unassigned

import (
	"fjacquet/conciliation/cmd/common"
	"fjacquet/conciliation/cmd/root"
	"fjacquet/conciliation/internal/models"

	"github.com/spf13/cobra"
)

var kind string

// Cmd represents the unassigned command
var Cmd = &cobra.Command{
	Use:   "unassigned",
	Short: "List the rows of a ledger that are not bucketed",
	RunE:  unassignedFunc,
}

func init() {
	Cmd.Flags().StringVarP(&kind, "kind", "k", "bank", "Ledger: bank, expenses or income")
}

func unassignedFunc(cmd *cobra.Command, args []string) error {
	dir, err := root.RequireInput("workbook directory")
	if err != nil {
		return err
	}
	k, err := models.ParseKind(kind)
	if err != nil {
		return err
	}
	s, err := root.AppContainer.OpenSession(dir)
	if err != nil {
		return err
	}
	return common.PrintRows(cmd.OutOrStdout(), s.Ledger(k), s.Unassigned(k), s.Currency())
}
