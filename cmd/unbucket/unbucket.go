// Package unbucket dissolves buckets.
package unbucket

import (
	"fmt"

	"fjacquet/conciliation/cmd/common"
	"fjacquet/conciliation/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the unbucket command
var Cmd = &cobra.Command{
	Use:   "unbucket [bucket ids]",
	Short: "Remove buckets",
	Long:  `Free every row of the given buckets in all three ledgers.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  unbucketFunc,
}

func unbucketFunc(cmd *cobra.Command, args []string) error {
	dir, err := root.RequireInput("workbook directory")
	if err != nil {
		return err
	}
	ids, err := common.ParseIDs(args)
	if err != nil {
		return err
	}

	s, err := root.AppContainer.OpenSession(dir)
	if err != nil {
		return err
	}
	freed := s.Unassign(ids...)
	if err := s.Save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d rows freed\n", freed)
	return nil
}
