package audit

import (
	"fjacquet/conciliation/internal/currencyutils"

	"github.com/shopspring/decimal"
)

// Summary holds the money of each match class, in cents.
type Summary struct {
	UnmatchedBank     int64 `json:"unmatched_bank" yaml:"unmatched_bank"`
	UnmatchedExpenses int64 `json:"unmatched_expenses" yaml:"unmatched_expenses"`
	UnmatchedIncome   int64 `json:"unmatched_income" yaml:"unmatched_income"`
	BankVsExpenses    int64 `json:"bank_vs_expenses" yaml:"bank_vs_expenses"`
	ExpensesVsBank    int64 `json:"expenses_vs_bank" yaml:"expenses_vs_bank"`
	BankVsIncome      int64 `json:"bank_vs_income" yaml:"bank_vs_income"`
	IncomeVsBank      int64 `json:"income_vs_bank" yaml:"income_vs_bank"`
}

// ExpenseImbalance is the bank total matched with expenses minus the
// expense total matched with the bank.
func (s Summary) ExpenseImbalance() int64 {
	return s.BankVsExpenses - s.ExpensesVsBank
}

// IncomeImbalance is the income counterpart of ExpenseImbalance.
func (s Summary) IncomeImbalance() int64 {
	return s.BankVsIncome - s.IncomeVsBank
}

// Imbalance adds both imbalances; zero when every bucket balances.
func (s Summary) Imbalance() int64 {
	return s.ExpenseImbalance() + s.IncomeImbalance()
}

// Balanced reports whether both match classes carry the same money on the
// bank side and on the counterpart side.
func (s Summary) Balanced() bool {
	return s.ExpenseImbalance() == 0 && s.IncomeImbalance() == 0
}

// Cell is one entry of the summary table: the ledger the money comes from
// and the column it is reported under ("only", "expenses" or "income").
type Cell struct {
	Ledger string `json:"ledger" yaml:"ledger"`
	Column string `json:"column" yaml:"column"`
	Cents  int64  `json:"cents" yaml:"cents"`
}

// Amount returns the cell value in currency units.
func (c Cell) Amount() decimal.Decimal {
	return currencyutils.FromCents(c.Cents)
}

// Cells lays the summary out as the table shown to users.
func (s Summary) Cells() []Cell {
	return []Cell{
		{Ledger: "bank", Column: "only", Cents: s.UnmatchedBank},
		{Ledger: "expenses", Column: "only", Cents: s.UnmatchedExpenses},
		{Ledger: "income", Column: "only", Cents: s.UnmatchedIncome},
		{Ledger: "bank", Column: "expenses", Cents: s.BankVsExpenses},
		{Ledger: "expenses", Column: "expenses", Cents: s.ExpensesVsBank},
		{Ledger: "bank", Column: "income", Cents: s.BankVsIncome},
		{Ledger: "income", Column: "income", Cents: s.IncomeVsBank},
	}
}
