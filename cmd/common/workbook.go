// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"fjacquet/conciliation/internal/container"
	"fjacquet/conciliation/internal/currencyutils"
	"fjacquet/conciliation/internal/models"
	"fjacquet/conciliation/pkg/conciliation"
)

// MaxRangeRows bounds how many rows a single "a-b" range may expand to.
const MaxRangeRows = 100000

// ParseRows parses a row list such as "1,2,5-7". An empty string yields no
// rows.
func ParseRows(s string) ([]int, error) {
	var rows []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			from, err := strconv.Atoi(strings.TrimSpace(lo))
			if err != nil {
				return nil, fmt.Errorf("invalid row range %q", part)
			}
			to, err := strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || to < from {
				return nil, fmt.Errorf("invalid row range %q", part)
			}
			if to-from >= MaxRangeRows {
				return nil, fmt.Errorf("row range %q spans more than %d rows", part, MaxRangeRows)
			}
			for i := from; i <= to; i++ {
				rows = append(rows, i)
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid row %q", part)
		}
		rows = append(rows, n)
	}
	return rows, nil
}

// ParseIDs parses bucket ids given as separate arguments or comma lists.
func ParseIDs(args []string) ([]int, error) {
	var ids []int
	for _, a := range args {
		more, err := ParseRows(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, more...)
	}
	return ids, nil
}

// ReadSources reads the bank statements and/or a settlement workbook into
// ledgers. Absent sources are skipped.
func ReadSources(c *container.Container, bankPaths []string, settlementFile string) (models.Ledgers, error) {
	var ls models.Ledgers
	if len(bankPaths) > 0 {
		bank, err := c.ReadStatements(bankPaths)
		if err != nil {
			return ls, err
		}
		ls.Set(bank)
	}
	if settlementFile != "" {
		split, err := c.GetReader().SplitSettlement(settlementFile)
		if err != nil {
			return ls, err
		}
		for _, k := range models.Counterparts {
			if l := split.Get(k); l != nil {
				ls.Set(l)
			}
		}
	}
	return ls, nil
}

// Balance returns the cents of the selected bank rows and of the selected
// counterpart rows. Positions outside a ledger are ignored.
func Balance(s *conciliation.Session, bank, expenses, income []int) (int64, int64) {
	sum := func(k models.Kind, positions []int) int64 {
		l := s.Ledger(k)
		var total int64
		for _, p := range positions {
			if l.InRange(p) {
				total += l.Rows[p].Cents
			}
		}
		return total
	}
	return sum(models.Bank, bank), sum(models.Expense, expenses) + sum(models.Income, income)
}

// PrintRows writes the given rows of l as an aligned table.
func PrintRows(w io.Writer, l *models.Ledger, positions []int, currency string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "row\tamount\tdescription\tproperty")
	for _, p := range positions {
		if !l.InRange(p) {
			continue
		}
		r := l.Rows[p]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p,
			currencyutils.FormatCents(r.Cents, currency), r.Entry.Description(), r.Entry.Property())
	}
	return tw.Flush()
}

// FormatIDs renders bucket ids for messages.
func FormatIDs(ids []int) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
