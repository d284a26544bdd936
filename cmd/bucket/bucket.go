// Package bucket groups rows into a bucket by hand.
package bucket

import (
	"fmt"

	"fjacquet/conciliation/cmd/common"
	"fjacquet/conciliation/cmd/root"
	"fjacquet/conciliation/internal/currencyutils"

	"github.com/spf13/cobra"
)

var (
	bankRows    string
	expenseRows string
	incomeRows  string
	force       bool
)

// Cmd represents the bucket command
var Cmd = &cobra.Command{
	Use:   "bucket",
	Short: "Bucket bank rows with expense or income rows",
	Long: `Group the given bank rows with either expense rows or income rows in a
new bucket. The command refuses when the amounts do not add up unless
--force is given.`,
	RunE: bucketFunc,
}

func init() {
	Cmd.Flags().StringVar(&bankRows, "bank", "", "Bank rows, e.g. 1,2 or 3-5")
	Cmd.Flags().StringVar(&expenseRows, "expenses", "", "Expense rows")
	Cmd.Flags().StringVar(&incomeRows, "income", "", "Income rows")
	Cmd.Flags().BoolVar(&force, "force", false, "Bucket even when the amounts differ")
}

func bucketFunc(cmd *cobra.Command, args []string) error {
	dir, err := root.RequireInput("workbook directory")
	if err != nil {
		return err
	}

	var rows [3][]int
	for i, list := range []string{bankRows, expenseRows, incomeRows} {
		if rows[i], err = common.ParseRows(list); err != nil {
			return err
		}
	}

	s, err := root.AppContainer.OpenSession(dir)
	if err != nil {
		return err
	}

	bankCents, otherCents := common.Balance(s, rows[0], rows[1], rows[2])
	if bankCents != otherCents && !force {
		return fmt.Errorf("amounts differ: bank %s, counterpart %s (use --force to bucket anyway)",
			currencyutils.FormatCents(bankCents, s.Currency()),
			currencyutils.FormatCents(otherCents, s.Currency()))
	}

	id, err := s.Assign(rows[0], rows[1], rows[2])
	if err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "bucket %d created\n", id)
	return nil
}
