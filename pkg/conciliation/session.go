// Package conciliation is the presentation-facing API of the reconciliation
// engine. A Session owns the three ledgers of one workbook directory and
// exposes every operation a front end needs: import, manual and automatic
// bucketing, update from fresh data, audit and save.
package conciliation

import (
	"fmt"

	"fjacquet/conciliation/internal/audit"
	"fjacquet/conciliation/internal/bucket"
	"fjacquet/conciliation/internal/common"
	"fjacquet/conciliation/internal/ledger"
	"fjacquet/conciliation/internal/logging"
	"fjacquet/conciliation/internal/matcher"
	"fjacquet/conciliation/internal/merge"
	"fjacquet/conciliation/internal/models"
	"fjacquet/conciliation/internal/reconerror"
	"fjacquet/conciliation/internal/store"
)

// Options configures a session.
type Options struct {
	Schema    models.Schema
	Files     store.Files
	Delimiter rune
	Currency  string
	Matcher   matcher.Options
	Logger    logging.Logger
}

// DefaultOptions returns the options of a stock workbook.
func DefaultOptions() Options {
	schema := models.DefaultSchema()
	return Options{
		Schema:    schema,
		Files:     store.FilesFor(schema),
		Delimiter: common.DefaultDelimiter,
		Currency:  "EUR",
		Matcher:   matcher.DefaultOptions(),
	}
}

// Session is one open workbook.
type Session struct {
	dir      string
	currency string
	logger   logging.Logger

	ledgers  *ledger.Store
	buckets  *bucket.Engine
	matcher  *matcher.Matcher
	merger   *merge.Engine
	auditor  *audit.Auditor
	workbook *store.WorkbookStore
}

// New creates an empty session saving to dir.
func New(dir string, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.Files == (store.Files{}) {
		opts.Files = store.FilesFor(opts.Schema)
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = common.DefaultDelimiter
	}

	ledgers := ledger.NewStore(opts.Schema, logger)
	buckets := bucket.NewEngine(ledgers, logger)
	return &Session{
		dir:      dir,
		currency: opts.Currency,
		logger:   logger,
		ledgers:  ledgers,
		buckets:  buckets,
		matcher:  matcher.New(ledgers, buckets, opts.Matcher, logger),
		merger:   merge.NewEngine(ledgers, buckets, logger),
		auditor:  audit.NewAuditor(ledgers, logger),
		workbook: store.NewWorkbookStore(dir, opts.Schema, opts.Files, opts.Delimiter, logger),
	}
}

// Open loads the workbook saved in dir, keeping its buckets when all three
// ledgers carry a bucket column.
func Open(dir string, opts Options) (*Session, error) {
	s := New(dir, opts)
	if !s.workbook.Exists() {
		return nil, fmt.Errorf("no workbook found in %s", dir)
	}
	m, err := s.workbook.LoadManifest()
	if err != nil {
		return nil, err
	}
	if m != nil && m.Version > store.ManifestVersion {
		return nil, fmt.Errorf("workbook %s has layout version %d, this build reads up to %d",
			dir, m.Version, store.ManifestVersion)
	}
	loaded, err := s.workbook.Load()
	if err != nil {
		return nil, err
	}
	if err := s.ledgers.SetLedgers(loaded, true); err != nil {
		return nil, fmt.Errorf("loading workbook %s: %w", dir, err)
	}
	return s, nil
}

// Dir returns the workbook directory.
func (s *Session) Dir() string {
	return s.dir
}

// Currency returns the display currency.
func (s *Session) Currency() string {
	return s.currency
}

// Ledger returns the current ledger of kind k, nil if not loaded. The
// returned value is owned by the session and must not be modified.
func (s *Session) Ledger(k models.Kind) *models.Ledger {
	return s.ledgers.Ledger(k)
}

// IsComplete reports whether the three ledgers are loaded.
func (s *Session) IsComplete() bool {
	return s.ledgers.IsComplete()
}

// Import replaces the ledgers present in incoming. Their buckets are kept
// only when every ledger carries one and the session ends up complete.
func (s *Session) Import(incoming models.Ledgers) error {
	return s.ledgers.SetLedgers(incoming, true)
}

// Assign buckets the given rows together and returns the new bucket id.
func (s *Session) Assign(bank, expenses, income []int) (int, error) {
	return s.buckets.Assign(bank, expenses, income)
}

// Unassign dissolves the given buckets and returns how many rows were freed.
func (s *Session) Unassign(ids ...int) int {
	return s.buckets.Unassign(ids...)
}

// AutoMatch runs the automatic passes.
func (s *Session) AutoMatch() (matcher.Result, error) {
	return s.matcher.AutoMatch()
}

// Orphans lists the buckets present on one side only.
func (s *Session) Orphans() []int {
	return s.buckets.Orphans()
}

// ClearOrphans removes the orphan buckets and returns their ids.
func (s *Session) ClearOrphans() []int {
	return s.buckets.ClearOrphans()
}

// Update merges freshly imported ledgers into the session.
func (s *Session) Update(incoming models.Ledgers) (merge.Result, error) {
	return s.merger.Update(incoming)
}

// Check audits the buckets.
func (s *Session) Check() (*audit.Report, error) {
	return s.auditor.CheckBuckets()
}

// Unassigned lists the free rows of kind k.
func (s *Session) Unassigned(k models.Kind) []int {
	return s.ledgers.Unassigned(k)
}

// Save writes the workbook. A complete session also writes the
// cross-reference sheets and the summary; a consistency failure aborts the
// save and leaves the previous files untouched.
func (s *Session) Save() error {
	snap := store.Snapshot{Ledgers: s.ledgers.Backup(), Currency: s.currency}
	if len(snap.Ledgers.Present()) == 0 {
		return &reconerror.IncompleteDataError{Operation: "save", Missing: s.ledgers.Missing()}
	}

	if s.ledgers.IsComplete() {
		report, err := s.auditor.CheckBuckets()
		if err != nil {
			return err
		}
		snap.Summary = &report.Summary
		for _, k := range models.Counterparts {
			links, err := s.auditor.CrossReference(k)
			if err != nil {
				return err
			}
			snap.Links[k] = links
		}
	}

	if err := s.workbook.Save(snap); err != nil {
		return fmt.Errorf("saving workbook %s: %w", s.dir, err)
	}
	return nil
}
