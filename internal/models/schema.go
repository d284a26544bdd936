package models

import (
	"fmt"
	"strings"

	"fjacquet/conciliation/internal/currencyutils"

	"github.com/shopspring/decimal"
)

// Column names of the source spreadsheets.
const (
	ColConcept  = "Concepto"
	ColAmount   = "Importe"
	ColUnit     = "Piso/Local"
	ColTenant   = "Inquilino"
	ColDate     = "Fecha"
	ColPaid     = "Cobrado"
	ColPending  = "Pendiente"
	ColEstate   = "finca"
	ColExpense  = "CONCEPTO"
	ColPayment  = "Pagos"
	ColRefund   = "Abonos"
	ColBucket   = "Bucket"
	ColCents    = "cents"
	ColBankRow  = "banco_row"
	ColOtherRow = "other_row"
)

// Schema is the immutable column and sheet layout of the three ledgers.
type Schema struct {
	columns [NumKinds][]string
	cash    [NumKinds]string
	sheets  [NumKinds]string
	cross   [NumKinds]string
}

// DefaultSchema returns the layout used by the property manager's workbooks.
func DefaultSchema() Schema {
	return Schema{
		columns: [NumKinds][]string{
			Bank:    {ColConcept, ColAmount},
			Expense: {ColExpense, ColPayment, ColRefund, ColEstate},
			Income:  {ColUnit, ColTenant, ColDate, ColPaid, ColPending, ColEstate},
		},
		cash:   [NumKinds]string{Bank: ColAmount, Expense: ColPayment, Income: ColPaid},
		sheets: [NumKinds]string{Bank: "banco", Expense: "gastos", Income: "ingresos"},
		cross:  [NumKinds]string{Expense: "banco_gastos", Income: "banco_ingresos"},
	}
}

// WithSheets returns a copy of s using the given sheet names. Empty names
// keep the current value.
func (s Schema) WithSheets(bank, expenses, income string) Schema {
	for k, name := range [NumKinds]string{bank, expenses, income} {
		if name != "" {
			s.sheets[k] = name
		}
	}
	s.cross[Expense] = s.sheets[Bank] + "_" + s.sheets[Expense]
	s.cross[Income] = s.sheets[Bank] + "_" + s.sheets[Income]
	return s
}

// Columns returns the data columns of kind k in order.
func (s Schema) Columns(k Kind) []string {
	return append([]string(nil), s.columns[k]...)
}

// CashColumn returns the name of the designated cash column of kind k.
func (s Schema) CashColumn(k Kind) string {
	return s.cash[k]
}

// Sheet returns the sheet name of kind k.
func (s Schema) Sheet(k Kind) string {
	return s.sheets[k]
}

// CrossSheet returns the name of the bank cross-reference sheet for a
// counterpart kind, or "" for Bank.
func (s Schema) CrossSheet(k Kind) string {
	return s.cross[k]
}

// HeaderMatches counts how many of the kind's columns appear in cells.
func (s Schema) HeaderMatches(k Kind, cells []string) int {
	present := make(map[string]struct{}, len(cells))
	for _, c := range cells {
		present[strings.TrimSpace(c)] = struct{}{}
	}
	n := 0
	for _, col := range s.columns[k] {
		if _, ok := present[col]; ok {
			n++
		}
	}
	return n
}

// IsHeader reports whether cells look like the header row of kind k: all
// columns but at most one must be present.
func (s Schema) IsHeader(k Kind, cells []string) bool {
	return s.HeaderMatches(k, cells) >= len(s.columns[k])-1
}

// IsBlank reports whether a spreadsheet cell carries no value.
func IsBlank(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "nan", "nat", "none":
		return true
	}
	return false
}

// BuildEntry converts a record keyed by column name into a typed entry. The
// cash column must hold a parseable amount; other numeric columns default
// to zero when blank.
func (s Schema) BuildEntry(k Kind, record map[string]string) (Entry, error) {
	cash := s.cash[k]
	if IsBlank(record[cash]) {
		return nil, fmt.Errorf("%s: missing %s", k, cash)
	}
	amount := func(col string) (decimal.Decimal, error) {
		v := record[col]
		if IsBlank(v) {
			return decimal.Zero, nil
		}
		return currencyutils.ParseAmount(v)
	}
	text := func(col string) string {
		v := record[col]
		if IsBlank(v) {
			return ""
		}
		return strings.TrimSpace(v)
	}

	switch k {
	case Bank:
		a, err := amount(ColAmount)
		if err != nil {
			return nil, err
		}
		return BankEntry{Concept: text(ColConcept), Amount: a}, nil
	case Expense:
		p, err := amount(ColPayment)
		if err != nil {
			return nil, err
		}
		r, err := amount(ColRefund)
		if err != nil {
			return nil, err
		}
		return ExpenseEntry{Concept: text(ColExpense), Payment: p, Refund: r, Estate: text(ColEstate)}, nil
	case Income:
		p, err := amount(ColPaid)
		if err != nil {
			return nil, err
		}
		pending, err := amount(ColPending)
		if err != nil {
			return nil, err
		}
		return IncomeEntry{
			Unit:    text(ColUnit),
			Tenant:  text(ColTenant),
			Date:    text(ColDate),
			Paid:    p,
			Pending: pending,
			Estate:  text(ColEstate),
		}, nil
	}
	return nil, fmt.Errorf("unknown ledger kind %d", int(k))
}
