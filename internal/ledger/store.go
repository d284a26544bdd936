// Package ledger holds the in-memory state of a reconciliation session: the
// Bank, Expense and Income ledgers together with their cents and bucket
// columns.
package ledger

import (
	"fmt"

	"fjacquet/conciliation/internal/logging"
	"fjacquet/conciliation/internal/models"

	"github.com/shopspring/decimal"
)

// Store owns the three ledgers of one session. It is not safe for
// concurrent use.
type Store struct {
	schema  models.Schema
	ledgers models.Ledgers
	logger  logging.Logger
}

// NewStore creates an empty store bound to an immutable schema.
func NewStore(schema models.Schema, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Store{schema: schema, logger: logger}
}

// Schema returns the column layout the store was built with.
func (s *Store) Schema() models.Schema {
	return s.schema
}

// SetLedgers replaces every ledger present in incoming. Incoming rows get
// their cents derived and, for expenses, their sign normalized so payments
// are negative. When applyExisting is set, every incoming ledger carries a
// bucket column and the store ends up complete, the incoming buckets are
// kept; otherwise the incoming rows start unbucketed.
//
// Incoming ledgers are copied; the caller keeps ownership of its values.
func (s *Store) SetLedgers(incoming models.Ledgers, applyExisting bool) error {
	kinds := incoming.Present()
	if len(kinds) == 0 {
		return nil
	}
	for _, k := range kinds {
		if incoming[k].Kind != k {
			return fmt.Errorf("ledger in %s slot has kind %s", k, incoming[k].Kind)
		}
		if err := incoming[k].Validate(); err != nil {
			return fmt.Errorf("invalid %s ledger: %w", k, err)
		}
	}

	keep := applyExisting
	for _, k := range models.Kinds {
		if incoming[k] == nil && s.ledgers[k] == nil {
			keep = false
		}
	}
	for _, k := range kinds {
		if !incoming[k].HasBuckets {
			keep = false
		}
	}

	for _, k := range kinds {
		l := incoming[k].Clone()
		if k == models.Expense {
			normalizeExpenseSign(l)
		}
		for i := range l.Rows {
			l.Rows[i].Price()
			if !keep {
				l.Rows[i].Bucket = models.NoBucket
			}
		}
		l.HasBuckets = true
		s.ledgers[k] = l
		s.logger.Info("Ledger loaded",
			logging.F(logging.FieldKind, k.String()),
			logging.F(logging.FieldCount, l.Len()),
			logging.F("buckets_kept", keep))
	}
	return nil
}

// normalizeExpenseSign negates all payments when they add up to a positive
// total, so expenses compare against bank debits.
func normalizeExpenseSign(l *models.Ledger) {
	total := decimal.Zero
	for _, r := range l.Rows {
		total = total.Add(r.Entry.Cash())
	}
	if !total.IsPositive() {
		return
	}
	for i := range l.Rows {
		l.Rows[i].Negate()
	}
}

// IsComplete reports whether all three kinds are loaded.
func (s *Store) IsComplete() bool {
	for _, k := range models.Kinds {
		if s.ledgers[k] == nil {
			return false
		}
	}
	return true
}

// Missing lists the kinds that are not loaded.
func (s *Store) Missing() []string {
	var out []string
	for _, k := range models.Kinds {
		if s.ledgers[k] == nil {
			out = append(out, k.String())
		}
	}
	return out
}

// Ledger returns the live ledger of kind k, or nil. Callers inside the
// engine mutate bucket ids through it.
func (s *Store) Ledger(k models.Kind) *models.Ledger {
	return s.ledgers.Get(k)
}

// Backup returns a deep copy of every loaded ledger.
func (s *Store) Backup() models.Ledgers {
	return s.ledgers.Clone()
}

// Restore replaces the whole state with a previously taken backup.
func (s *Store) Restore(backup models.Ledgers) {
	s.ledgers = backup.Clone()
}

// Unassigned returns the positions of the free rows of kind k.
func (s *Store) Unassigned(k models.Kind) []int {
	return s.ledgers.Get(k).Free()
}

// NextBucket returns max(bank bucket ids)+1, or 0 when the bank has none.
func (s *Store) NextBucket() int {
	maxID, ok := s.ledgers.Get(models.Bank).MaxBucket()
	if !ok {
		return 0
	}
	return maxID + 1
}

// ClearBuckets unsets every bucket in every loaded ledger.
func (s *Store) ClearBuckets() {
	for _, k := range s.ledgers.Present() {
		s.ledgers[k].ClearBuckets()
	}
}
