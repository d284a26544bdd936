// Package matcher proposes and commits bucket assignments automatically.
// Three passes run in order over the free bank rows:
// 1. Exact cents match against expenses, then income
// 2. Match against a single expense within a cents tolerance
// 3. Match against two adjacent expenses of the same property
package matcher

import (
	"fjacquet/conciliation/internal/bucket"
	"fjacquet/conciliation/internal/ledger"
	"fjacquet/conciliation/internal/logging"
	"fjacquet/conciliation/internal/models"
	"fjacquet/conciliation/internal/reconerror"
)

// DefaultToleranceCents is the tolerance of the second pass.
const DefaultToleranceCents = 1

// maxRounds bounds the fixpoint loop; each productive round buckets at
// least one bank row so the bank length is the real bound.
const maxRounds = 1000

// Options tunes the matcher.
type Options struct {
	ToleranceCents int64
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{ToleranceCents: DefaultToleranceCents}
}

// Result reports what an AutoMatch call bucketed.
type Result struct {
	Total  int
	Rounds int
	ByPass map[string]int
}

// Matcher runs the automatic passes against a store.
type Matcher struct {
	store  *ledger.Store
	passes []Pass
	logger logging.Logger
}

// New creates a matcher committing its matches through engine.
func New(store *ledger.Store, engine *bucket.Engine, opts Options, logger logging.Logger) *Matcher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.ToleranceCents < 0 {
		opts.ToleranceCents = -opts.ToleranceCents
	}
	base := passBase{store: store, engine: engine, logger: logger}
	return &Matcher{
		store: store,
		passes: []Pass{
			&ExactPass{passBase: base, order: models.Counterparts[:]},
			&TolerancePass{passBase: base, tolerance: opts.ToleranceCents},
			&ConsecutivePass{passBase: base},
		},
		logger: logger,
	}
}

// AutoMatch runs the three passes until a full round buckets nothing, so a
// second call on the same state always returns a zero total.
func (m *Matcher) AutoMatch() (Result, error) {
	res := Result{ByPass: make(map[string]int, len(m.passes))}
	if !m.store.IsComplete() {
		return res, &reconerror.IncompleteDataError{Operation: "automatch", Missing: m.store.Missing()}
	}

	for res.Rounds < maxRounds {
		res.Rounds++
		round := 0
		for _, p := range m.passes {
			n, err := p.Run()
			res.ByPass[p.Name()] += n
			round += n
			if err != nil {
				res.Total += round
				return res, err
			}
			if n > 0 {
				m.logger.Debug("Pass committed matches",
					logging.F(logging.FieldPass, p.Name()),
					logging.F(logging.FieldCount, n))
			}
		}
		res.Total += round
		if round == 0 {
			break
		}
	}

	m.logger.Info("Automatic matching finished",
		logging.F(logging.FieldCount, res.Total),
		logging.F("rounds", res.Rounds),
		logging.F("unmatched_bank", len(m.store.Unassigned(models.Bank))))
	return res, nil
}
