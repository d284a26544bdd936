package matcher

import (
	"fjacquet/conciliation/internal/bucket"
	"fjacquet/conciliation/internal/ledger"
	"fjacquet/conciliation/internal/logging"
	"fjacquet/conciliation/internal/models"
)

// Pass is one heuristic matching round over the free bank rows.
type Pass interface {
	// Run commits every match the pass can find and returns the number of
	// buckets created.
	Run() (int, error)

	// Name returns the name of this pass for logging purposes.
	Name() string
}

// passBase carries the collaborators every pass needs.
type passBase struct {
	store  *ledger.Store
	engine *bucket.Engine
	logger logging.Logger
}

// freeBank returns the positions of the bank rows that are still free.
func (p passBase) freeBank() []int {
	return p.store.Unassigned(models.Bank)
}

func (p passBase) isFree(k models.Kind, pos int) bool {
	return !p.store.Ledger(k).Rows[pos].Bucket.Set
}

func (p passBase) cents(k models.Kind, pos int) int64 {
	return p.store.Ledger(k).Rows[pos].Cents
}

// candidates returns the free rows of kind k accepted by keep.
func (p passBase) candidates(k models.Kind, keep func(cents int64) bool) []int {
	l := p.store.Ledger(k)
	var out []int
	for _, pos := range l.Free() {
		if keep(l.Rows[pos].Cents) {
			out = append(out, pos)
		}
	}
	return out
}

func (p passBase) assign(name string, k models.Kind, bankPos int, others []int) error {
	var err error
	var id int
	if k == models.Income {
		id, err = p.engine.Assign([]int{bankPos}, nil, others)
	} else {
		id, err = p.engine.Assign([]int{bankPos}, others, nil)
	}
	if err != nil {
		return err
	}
	p.logger.Debug("Automatic match",
		logging.F(logging.FieldPass, name),
		logging.F(logging.FieldBucket, id),
		logging.F(logging.FieldKind, k.String()),
		logging.F(logging.FieldBankRows, bankPos),
		logging.F(logging.FieldOtherRows, others))
	return nil
}
