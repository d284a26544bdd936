// Package models holds the data model of the reconciliation engine: ledger
// kinds, typed ledger entries, rows with their cents and bucket columns, and
// the column schema used at the ingestion boundary.
package models

import (
	"fmt"
	"strings"
)

// Kind identifies one of the three ledgers.
type Kind int

const (
	Bank Kind = iota
	Expense
	Income
)

// NumKinds is the number of ledger kinds.
const NumKinds = 3

// Kinds lists every kind in canonical order.
var Kinds = [NumKinds]Kind{Bank, Expense, Income}

// Counterparts lists the kinds a bank row can be bucketed against, in the
// order the auto-matcher visits them.
var Counterparts = [2]Kind{Expense, Income}

func (k Kind) String() string {
	switch k {
	case Bank:
		return "bank"
	case Expense:
		return "expenses"
	case Income:
		return "income"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the three ledger kinds.
func (k Kind) Valid() bool {
	return k >= Bank && k <= Income
}

// ParseKind accepts the English names and the Spanish sheet names
// (banco, gastos, ingresos).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bank", "banco", "bnk":
		return Bank, nil
	case "expenses", "expense", "gastos", "exp":
		return Expense, nil
	case "income", "incomes", "ingresos", "inc":
		return Income, nil
	}
	return 0, fmt.Errorf("unknown ledger kind %q", s)
}
