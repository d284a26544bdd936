// Package merge replaces ledgers with freshly imported data while keeping
// the bucket assignments whose rows can be re-identified unambiguously.
package merge

import (
	"fmt"

	"fjacquet/conciliation/internal/bucket"
	"fjacquet/conciliation/internal/ledger"
	"fjacquet/conciliation/internal/logging"
	"fjacquet/conciliation/internal/models"
)

// Result lists the bucket ids that survived an update and those dropped.
type Result struct {
	Kept    []int
	Dropped []int
}

// Engine performs ledger updates.
type Engine struct {
	store   *ledger.Store
	buckets *bucket.Engine
	logger  logging.Logger
}

// NewEngine creates a merge engine.
func NewEngine(store *ledger.Store, buckets *bucket.Engine, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{store: store, buckets: buckets, logger: logger}
}

// joined is one output row of the left join of an old bucketed row against
// the new ledger. newPos is -1 when no identical new row exists.
type joined struct {
	bucket int
	oldPos int
	newPos int
}

// plan holds the resolved new positions of one surviving bucket.
type plan struct {
	id        int
	positions [models.NumKinds][]int
}

// Update replaces the ledgers present in incoming, discarding any bucket
// column they carry, then re-applies every old bucket whose rows all map to
// exactly one column-identical new row. Bucket ids are preserved. Buckets
// that cannot be reattached are dropped; nothing is guessed.
func (e *Engine) Update(incoming models.Ledgers) (Result, error) {
	var res Result
	if len(incoming.Present()) == 0 {
		return res, nil
	}

	old := e.store.Backup()
	if err := e.store.SetLedgers(incoming, false); err != nil {
		return res, fmt.Errorf("update: %w", err)
	}
	e.store.ClearBuckets()

	var joins [models.NumKinds][]joined
	for _, k := range models.Kinds {
		joins[k] = leftJoin(old[k], e.store.Ledger(k))
	}

	var plans []plan
	for _, id := range old[models.Bank].BucketOrder() {
		p, reason := resolve(id, old, joins)
		if reason != "" {
			e.drop(&res, id, reason)
			continue
		}
		plans = append(plans, p)
	}

	for _, p := range e.exclusive(plans, &res) {
		if err := e.buckets.Reattach(p.id, p.positions[models.Bank], p.positions[models.Expense], p.positions[models.Income]); err != nil {
			e.store.Restore(old)
			return Result{}, fmt.Errorf("update: reattaching bucket %d: %w", p.id, err)
		}
		res.Kept = append(res.Kept, p.id)
	}

	e.logger.Info("Ledgers updated",
		logging.F(logging.FieldKind, kindNames(incoming.Present())),
		logging.F("kept", len(res.Kept)),
		logging.F("dropped", len(res.Dropped)))
	return res, nil
}

// leftJoin matches every bucketed row of old against the rows of cur with
// identical data columns. Each old row yields one output row per match, or
// a single unresolved row.
func leftJoin(old, cur *models.Ledger) []joined {
	if old == nil {
		return nil
	}
	var out []joined
	for oldPos, r := range old.Rows {
		if !r.Bucket.Set {
			continue
		}
		found := false
		if cur != nil {
			for newPos, n := range cur.Rows {
				if r.SameEntry(n) {
					out = append(out, joined{bucket: r.Bucket.ID, oldPos: oldPos, newPos: newPos})
					found = true
				}
			}
		}
		if !found {
			out = append(out, joined{bucket: r.Bucket.ID, oldPos: oldPos, newPos: -1})
		}
	}
	return out
}

// resolve collects the new positions of bucket id in every ledger. A non
// empty reason means the bucket must be dropped.
func resolve(id int, old models.Ledgers, joins [models.NumKinds][]joined) (plan, string) {
	p := plan{id: id}
	for _, k := range models.Kinds {
		original := len(old[k].InBucket(id))
		var merged []joined
		for _, j := range joins[k] {
			if j.bucket == id {
				merged = append(merged, j)
			}
		}
		for _, j := range merged {
			if j.newPos < 0 {
				return p, fmt.Sprintf("%s row %d no longer present", k, j.oldPos)
			}
		}
		if len(merged) != original {
			return p, fmt.Sprintf("%s rows are ambiguous (%d matches for %d rows)", k, len(merged), original)
		}
		for _, j := range merged {
			p.positions[k] = append(p.positions[k], j.newPos)
		}
	}
	hasExp, hasInc := len(p.positions[models.Expense]) > 0, len(p.positions[models.Income]) > 0
	switch {
	case !hasExp && !hasInc:
		return p, "no counterpart rows"
	case hasExp && hasInc:
		return p, "bucket spans expenses and income"
	}
	return p, ""
}

// exclusive drops every plan that claims a new row also claimed by another
// plan, which happens when identical rows sat in different buckets.
func (e *Engine) exclusive(plans []plan, res *Result) []plan {
	var claims [models.NumKinds]map[int]int
	for _, k := range models.Kinds {
		claims[k] = make(map[int]int)
	}
	for _, p := range plans {
		for _, k := range models.Kinds {
			for _, pos := range p.positions[k] {
				claims[k][pos]++
			}
		}
	}

	var out []plan
	for _, p := range plans {
		shared := false
		for _, k := range models.Kinds {
			for _, pos := range p.positions[k] {
				if claims[k][pos] > 1 {
					shared = true
				}
			}
		}
		if shared {
			e.drop(res, p.id, "rows claimed by another bucket")
			continue
		}
		out = append(out, p)
	}
	return out
}

func (e *Engine) drop(res *Result, id int, reason string) {
	res.Dropped = append(res.Dropped, id)
	e.logger.Warn("Bucket dropped during update",
		logging.F(logging.FieldBucket, id),
		logging.F(logging.FieldReason, reason))
}

func kindNames(kinds []models.Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = k.String()
	}
	return out
}
