package models

import (
	"fjacquet/conciliation/internal/currencyutils"
)

// Row is one ledger line: its entry, the integer cents of the cash column
// and the bucket it has been assigned to.
type Row struct {
	Entry  Entry
	Cents  int64
	Bucket Bucket

	priced bool
}

// NewRow wraps an entry in an unpriced, unbucketed row.
func NewRow(e Entry) Row {
	return Row{Entry: e}
}

// Priced reports whether Cents has been derived.
func (r Row) Priced() bool {
	return r.priced
}

// Price derives Cents from the cash column. A row that is already priced
// keeps its value.
func (r *Row) Price() {
	if r.priced {
		return
	}
	r.Cents = currencyutils.ToCents(r.Entry.Cash())
	r.priced = true
}

// WithCents returns a priced copy of r carrying the given cents.
func (r Row) WithCents(cents int64) Row {
	r.Cents = cents
	r.priced = true
	return r
}

// Negate flips the sign of the cash column and of Cents if already derived.
func (r *Row) Negate() {
	r.Entry = negate(r.Entry)
	if r.priced {
		r.Cents = -r.Cents
	}
}

// SameEntry reports whether both rows carry identical data columns.
func (r Row) SameEntry(o Row) bool {
	a, b := r.Entry.Values(), o.Entry.Values()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
