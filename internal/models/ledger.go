package models

import (
	"fmt"
	"sort"
)

// Ledger is an ordered table of rows of a single kind. Row positions are
// stable identifiers for the life of the ledger.
type Ledger struct {
	Kind Kind
	Rows []Row
	// HasBuckets records whether the source carried a bucket column.
	HasBuckets bool
}

// NewLedger builds an unbucketed ledger from entries.
func NewLedger(kind Kind, entries ...Entry) *Ledger {
	l := &Ledger{Kind: kind, Rows: make([]Row, 0, len(entries))}
	for _, e := range entries {
		l.Rows = append(l.Rows, NewRow(e))
	}
	return l
}

// Len returns the number of rows.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Rows)
}

// Validate checks that every row carries an entry of the ledger's kind.
func (l *Ledger) Validate() error {
	if !l.Kind.Valid() {
		return fmt.Errorf("ledger has invalid kind %d", int(l.Kind))
	}
	for i, r := range l.Rows {
		if r.Entry == nil {
			return fmt.Errorf("%s row %d has no entry", l.Kind, i)
		}
		if r.Entry.Kind() != l.Kind {
			return fmt.Errorf("%s row %d holds a %s entry", l.Kind, i, r.Entry.Kind())
		}
	}
	return nil
}

// Clone returns a deep copy. Entries are values, so copying the row slice
// is enough.
func (l *Ledger) Clone() *Ledger {
	if l == nil {
		return nil
	}
	c := &Ledger{Kind: l.Kind, HasBuckets: l.HasBuckets, Rows: make([]Row, len(l.Rows))}
	copy(c.Rows, l.Rows)
	return c
}

// InRange reports whether pos is a valid row position.
func (l *Ledger) InRange(pos int) bool {
	return pos >= 0 && pos < l.Len()
}

// Free returns the positions of unbucketed rows in order.
func (l *Ledger) Free() []int {
	var out []int
	if l == nil {
		return out
	}
	for i, r := range l.Rows {
		if !r.Bucket.Set {
			out = append(out, i)
		}
	}
	return out
}

// InBucket returns the positions of rows assigned to id in order.
func (l *Ledger) InBucket(id int) []int {
	var out []int
	if l == nil {
		return out
	}
	for i, r := range l.Rows {
		if r.Bucket.Is(id) {
			out = append(out, i)
		}
	}
	return out
}

// BucketSet returns the distinct bucket ids present in the ledger.
func (l *Ledger) BucketSet() map[int]struct{} {
	set := make(map[int]struct{})
	if l == nil {
		return set
	}
	for _, r := range l.Rows {
		if r.Bucket.Set {
			set[r.Bucket.ID] = struct{}{}
		}
	}
	return set
}

// BucketOrder returns the distinct bucket ids in order of first appearance.
func (l *Ledger) BucketOrder() []int {
	seen := make(map[int]struct{})
	var out []int
	if l == nil {
		return out
	}
	for _, r := range l.Rows {
		if !r.Bucket.Set {
			continue
		}
		if _, ok := seen[r.Bucket.ID]; ok {
			continue
		}
		seen[r.Bucket.ID] = struct{}{}
		out = append(out, r.Bucket.ID)
	}
	return out
}

// MaxBucket returns the largest bucket id in the ledger.
func (l *Ledger) MaxBucket() (int, bool) {
	maxID, found := 0, false
	if l == nil {
		return maxID, found
	}
	for _, r := range l.Rows {
		if r.Bucket.Set && (!found || r.Bucket.ID > maxID) {
			maxID, found = r.Bucket.ID, true
		}
	}
	return maxID, found
}

// SumCents adds up the cents of the rows at the given positions.
func (l *Ledger) SumCents(positions []int) int64 {
	var total int64
	for _, p := range positions {
		total += l.Rows[p].Cents
	}
	return total
}

// ClearBuckets unsets the bucket of every row.
func (l *Ledger) ClearBuckets() {
	for i := range l.Rows {
		l.Rows[i].Bucket = NoBucket
	}
}

// Ledgers holds at most one ledger per kind.
type Ledgers [NumKinds]*Ledger

// Get returns the ledger of kind k, or nil.
func (ls Ledgers) Get(k Kind) *Ledger {
	if !k.Valid() {
		return nil
	}
	return ls[k]
}

// Set stores l under its own kind.
func (ls *Ledgers) Set(l *Ledger) {
	ls[l.Kind] = l
}

// Present returns the kinds that carry a ledger.
func (ls Ledgers) Present() []Kind {
	var out []Kind
	for _, k := range Kinds {
		if ls[k] != nil {
			out = append(out, k)
		}
	}
	return out
}

// Clone deep-copies every present ledger.
func (ls Ledgers) Clone() Ledgers {
	var c Ledgers
	for _, k := range Kinds {
		c[k] = ls[k].Clone()
	}
	return c
}

// SortedIDs returns the keys of a bucket set in ascending order.
func SortedIDs(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
