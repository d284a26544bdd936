package models

import (
	"github.com/shopspring/decimal"
)

// Entry is the kind-specific payload of a ledger row.
type Entry interface {
	// Kind returns the ledger kind the entry belongs to.
	Kind() Kind
	// Cash returns the value of the kind's designated cash column.
	Cash() decimal.Decimal
	// Description is the free text used for similarity tie-breaks.
	Description() string
	// Property is the estate identifier, empty for bank entries.
	Property() string
	// Values returns every data column as canonical text, in schema order.
	// Two entries with equal Values are the same logical row.
	Values() []string
}

// BankEntry is a row of the bank account statement.
type BankEntry struct {
	Concept string
	Amount  decimal.Decimal
}

func (e BankEntry) Kind() Kind            { return Bank }
func (e BankEntry) Cash() decimal.Decimal { return e.Amount }
func (e BankEntry) Description() string   { return e.Concept }
func (e BankEntry) Property() string      { return "" }
func (e BankEntry) Values() []string      { return []string{e.Concept, e.Amount.String()} }

// ExpenseEntry is a row of the expenses ledger. Payment is the cash column;
// Refund carries credits that are not matched against the bank.
type ExpenseEntry struct {
	Concept string
	Payment decimal.Decimal
	Refund  decimal.Decimal
	Estate  string
}

func (e ExpenseEntry) Kind() Kind            { return Expense }
func (e ExpenseEntry) Cash() decimal.Decimal { return e.Payment }
func (e ExpenseEntry) Description() string   { return e.Concept }
func (e ExpenseEntry) Property() string      { return e.Estate }
func (e ExpenseEntry) Values() []string {
	return []string{e.Concept, e.Payment.String(), e.Refund.String(), e.Estate}
}

// IncomeEntry is a row of the income ledger (rent collected per unit).
type IncomeEntry struct {
	Unit    string
	Tenant  string
	Date    string
	Paid    decimal.Decimal
	Pending decimal.Decimal
	Estate  string
}

func (e IncomeEntry) Kind() Kind            { return Income }
func (e IncomeEntry) Cash() decimal.Decimal { return e.Paid }
func (e IncomeEntry) Description() string   { return e.Tenant }
func (e IncomeEntry) Property() string      { return e.Estate }
func (e IncomeEntry) Values() []string {
	return []string{e.Unit, e.Tenant, e.Date, e.Paid.String(), e.Pending.String(), e.Estate}
}

// negate flips the sign of the cash column of an entry.
func negate(e Entry) Entry {
	switch v := e.(type) {
	case BankEntry:
		v.Amount = v.Amount.Neg()
		return v
	case ExpenseEntry:
		v.Payment = v.Payment.Neg()
		return v
	case IncomeEntry:
		v.Paid = v.Paid.Neg()
		return v
	}
	return e
}
