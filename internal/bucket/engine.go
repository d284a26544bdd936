// Package bucket assigns and removes bucket ids linking bank rows to the
// expense or income rows that explain them.
package bucket

import (
	"fmt"

	"fjacquet/conciliation/internal/ledger"
	"fjacquet/conciliation/internal/logging"
	"fjacquet/conciliation/internal/models"
	"fjacquet/conciliation/internal/reconerror"
)

// Engine mutates bucket ids in a ledger store.
type Engine struct {
	store  *ledger.Store
	logger logging.Logger
}

// NewEngine creates an engine operating on store.
func NewEngine(store *ledger.Store, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{store: store, logger: logger}
}

// Assign links the given bank rows with either the expense rows or the
// income rows under a new bucket id, max(bank bucket ids)+1. Exactly one
// counterpart selection must be non-empty. Amounts are not compared; that
// decision belongs to the caller.
func (e *Engine) Assign(bank, expenses, income []int) (int, error) {
	if err := e.requireComplete("assign"); err != nil {
		return 0, err
	}
	if err := e.validate("assign", bank, expenses, income); err != nil {
		return 0, err
	}
	id := e.store.NextBucket()
	e.apply(id, bank, expenses, income)
	return id, nil
}

// Reattach assigns an explicit bucket id, used when restoring buckets that
// survived a ledger update. The same validation as Assign applies and the id
// must not already be in use.
func (e *Engine) Reattach(id int, bank, expenses, income []int) error {
	if err := e.requireComplete("reattach"); err != nil {
		return err
	}
	if id < 0 {
		return &reconerror.InvalidArgumentError{Operation: "reattach", Reason: fmt.Sprintf("negative bucket id %d", id)}
	}
	for _, k := range models.Kinds {
		if len(e.store.Ledger(k).InBucket(id)) > 0 {
			return &reconerror.InvalidArgumentError{
				Operation: "reattach",
				Reason:    fmt.Sprintf("bucket %d already used in %s", id, k),
			}
		}
	}
	if err := e.validate("reattach", bank, expenses, income); err != nil {
		return err
	}
	e.apply(id, bank, expenses, income)
	return nil
}

func (e *Engine) requireComplete(op string) error {
	if e.store.IsComplete() {
		return nil
	}
	return &reconerror.IncompleteDataError{Operation: op, Missing: e.store.Missing()}
}

// validate checks every precondition before any row is touched.
func (e *Engine) validate(op string, bank, expenses, income []int) error {
	invalid := func(format string, args ...interface{}) error {
		return &reconerror.InvalidArgumentError{Operation: op, Reason: fmt.Sprintf(format, args...)}
	}
	if len(bank) == 0 {
		return invalid("no bank rows selected")
	}
	if len(expenses) == 0 && len(income) == 0 {
		return invalid("no expense or income rows selected")
	}
	if len(expenses) > 0 && len(income) > 0 {
		return invalid("a bucket links bank rows with expenses or with income, not both")
	}
	for i, rows := range [models.NumKinds][]int{models.Bank: bank, models.Expense: expenses, models.Income: income} {
		kind := models.Kind(i)
		l := e.store.Ledger(kind)
		for _, pos := range rows {
			if !l.InRange(pos) {
				return invalid("%s row %d out of range [0,%d)", kind, pos, l.Len())
			}
			if b := l.Rows[pos].Bucket; b.Set {
				return invalid("%s row %d already in bucket %d", kind, pos, b.ID)
			}
		}
	}
	return nil
}

func (e *Engine) apply(id int, bank, expenses, income []int) {
	other, otherKind := expenses, models.Expense
	if len(income) > 0 {
		other, otherKind = income, models.Income
	}
	b := models.BucketOf(id)
	for _, pos := range bank {
		e.store.Ledger(models.Bank).Rows[pos].Bucket = b
	}
	for _, pos := range other {
		e.store.Ledger(otherKind).Rows[pos].Bucket = b
	}
	e.logger.Debug("Bucket assigned",
		logging.F(logging.FieldBucket, id),
		logging.F(logging.FieldKind, otherKind.String()),
		logging.F(logging.FieldBankRows, bank),
		logging.F(logging.FieldOtherRows, other))
}

// Unassign clears the given bucket ids in every loaded ledger and returns
// the number of rows freed. Unknown ids are ignored.
func (e *Engine) Unassign(ids ...int) int {
	if len(ids) == 0 {
		return 0
	}
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	freed := 0
	for _, k := range models.Kinds {
		l := e.store.Ledger(k)
		if l == nil {
			continue
		}
		for i := range l.Rows {
			if !l.Rows[i].Bucket.Set {
				continue
			}
			if _, ok := set[l.Rows[i].Bucket.ID]; ok {
				l.Rows[i].Bucket = models.NoBucket
				freed++
			}
		}
	}
	e.logger.Debug("Buckets removed",
		logging.F(logging.FieldBucket, ids),
		logging.F(logging.FieldCount, freed))
	return freed
}

// Orphans returns, in ascending order, the bucket ids that appear in a
// single ledger only.
func (e *Engine) Orphans() []int {
	var sets [models.NumKinds]map[int]struct{}
	for _, k := range models.Kinds {
		sets[k] = e.store.Ledger(k).BucketSet()
	}
	orphans := make(map[int]struct{})
	for _, k := range models.Kinds {
		for id := range sets[k] {
			shared := false
			for _, o := range models.Kinds {
				if o == k {
					continue
				}
				if _, ok := sets[o][id]; ok {
					shared = true
					break
				}
			}
			if !shared {
				orphans[id] = struct{}{}
			}
		}
	}
	return models.SortedIDs(orphans)
}

// ClearOrphans unassigns every orphan bucket and returns the ids removed.
// A second call in a row returns an empty list.
func (e *Engine) ClearOrphans() []int {
	orphans := e.Orphans()
	if len(orphans) == 0 {
		return orphans
	}
	e.Unassign(orphans...)
	e.logger.Warn("Orphan buckets cleared",
		logging.F(logging.FieldBucket, orphans),
		logging.F(logging.FieldCount, len(orphans)))
	return orphans
}
