// Package audit derives the read-only reconciliation view of the ledgers:
// which rows are matched against which counterpart, the money on each
// side, and the cross-reference tables written next to the ledgers.
package audit

import (
	"fmt"

	"fjacquet/conciliation/internal/ledger"
	"fjacquet/conciliation/internal/logging"
	"fjacquet/conciliation/internal/models"
	"fjacquet/conciliation/internal/reconerror"
)

// Pair splits the bank and one counterpart ledger into rows whose bucket
// appears on both sides and the rest.
type Pair struct {
	Counterpart    models.Kind
	BankMatched    []int
	BankUnmatched  []int
	OtherMatched   []int
	OtherUnmatched []int
}

// Report is the full result of a bucket check.
type Report struct {
	Expenses Pair
	Income   Pair
	// BankOnly holds the bank rows matched with neither counterpart.
	BankOnly []int
	Summary  Summary
}

// Auditor reads a store without mutating it.
type Auditor struct {
	store  *ledger.Store
	logger logging.Logger
}

// NewAuditor creates an auditor for store.
func NewAuditor(store *ledger.Store, logger logging.Logger) *Auditor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Auditor{store: store, logger: logger}
}

// CheckBuckets computes the three-way split and its summary. It fails with
// IncompleteDataError before all ledgers are loaded and with
// InternalConsistencyError when the bucket state is corrupt.
func (a *Auditor) CheckBuckets() (*Report, error) {
	if !a.store.IsComplete() {
		return nil, &reconerror.IncompleteDataError{Operation: "check", Missing: a.store.Missing()}
	}
	bank := a.store.Ledger(models.Bank)
	exp := split(bank, a.store.Ledger(models.Expense))
	inc := split(bank, a.store.Ledger(models.Income))

	expIDs := bucketsAt(bank, exp.BankMatched)
	for id := range bucketsAt(bank, inc.BankMatched) {
		if _, ok := expIDs[id]; ok {
			err := &reconerror.InternalConsistencyError{
				Check:  "exclusive counterpart",
				Detail: fmt.Sprintf("bucket %d is matched with both expenses and income", id),
			}
			a.logger.WithError(err).Error("Bucket check failed")
			return nil, err
		}
	}

	bankOnly := intersect(exp.BankUnmatched, inc.BankUnmatched)
	if total := len(exp.BankMatched) + len(inc.BankMatched) + len(bankOnly); total != bank.Len() {
		err := &reconerror.InternalConsistencyError{
			Check:  "bank partition",
			Detail: fmt.Sprintf("bank has %d rows but the split accounts for %d", bank.Len(), total),
		}
		a.logger.WithError(err).Error("Bucket check failed")
		return nil, err
	}

	r := &Report{Expenses: exp, Income: inc, BankOnly: bankOnly}
	r.Summary = Summary{
		UnmatchedBank:     bank.SumCents(bankOnly),
		UnmatchedExpenses: a.store.Ledger(models.Expense).SumCents(exp.OtherUnmatched),
		UnmatchedIncome:   a.store.Ledger(models.Income).SumCents(inc.OtherUnmatched),
		BankVsExpenses:    bank.SumCents(exp.BankMatched),
		ExpensesVsBank:    a.store.Ledger(models.Expense).SumCents(exp.OtherMatched),
		BankVsIncome:      bank.SumCents(inc.BankMatched),
		IncomeVsBank:      a.store.Ledger(models.Income).SumCents(inc.OtherMatched),
	}
	a.logger.Debug("Buckets checked",
		logging.F("bank_only", len(bankOnly)),
		logging.F("imbalance_cents", r.Summary.Imbalance()))
	return r, nil
}

// split partitions bank and other by whether a row's bucket also appears
// in the opposite ledger.
func split(bank, other *models.Ledger) Pair {
	p := Pair{Counterpart: other.Kind}
	bankIDs, otherIDs := bank.BucketSet(), other.BucketSet()
	for i, r := range bank.Rows {
		if _, ok := otherIDs[r.Bucket.ID]; r.Bucket.Set && ok {
			p.BankMatched = append(p.BankMatched, i)
		} else {
			p.BankUnmatched = append(p.BankUnmatched, i)
		}
	}
	for i, r := range other.Rows {
		if _, ok := bankIDs[r.Bucket.ID]; r.Bucket.Set && ok {
			p.OtherMatched = append(p.OtherMatched, i)
		} else {
			p.OtherUnmatched = append(p.OtherUnmatched, i)
		}
	}
	return p
}

func bucketsAt(l *models.Ledger, positions []int) map[int]struct{} {
	set := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		set[l.Rows[p].Bucket.ID] = struct{}{}
	}
	return set
}

// intersect returns the positions present in both sorted slices.
func intersect(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}
