// Package orphans removes buckets present on one side only.
package orphans

import (
	"fmt"

	"fjacquet/conciliation/cmd/common"
	"fjacquet/conciliation/cmd/root"

	"github.com/spf13/cobra"
)

var dryRun bool

// Cmd represents the orphans command
var Cmd = &cobra.Command{
	Use:   "orphans",
	Short: "Clear orphan buckets",
	Long: `List the buckets whose id appears in a single ledger, which happens after
a ledger is re-imported, and remove them.`,
	RunE: orphansFunc,
}

func init() {
	Cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only list the orphan buckets")
}

func orphansFunc(cmd *cobra.Command, args []string) error {
	dir, err := root.RequireInput("workbook directory")
	if err != nil {
		return err
	}
	s, err := root.AppContainer.OpenSession(dir)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "orphan buckets: %s\n", common.FormatIDs(s.Orphans()))
		return nil
	}

	cleared := s.ClearOrphans()
	if len(cleared) > 0 {
		if err := s.Save(); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "orphan buckets cleared: %s\n", common.FormatIDs(cleared))
	return nil
}
