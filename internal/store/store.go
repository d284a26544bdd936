// Package store persists a reconciliation workbook: a directory holding one
// CSV sheet per ledger with its bucket column, the bank cross-reference
// sheets and a YAML manifest.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"fjacquet/conciliation/internal/audit"
	"fjacquet/conciliation/internal/common"
	"fjacquet/conciliation/internal/fileutils"
	"fjacquet/conciliation/internal/logging"
	"fjacquet/conciliation/internal/models"

	"gopkg.in/yaml.v3"
)

// ManifestVersion is the workbook layout version written by Save.
const ManifestVersion = 1

// Files names the files of a workbook directory.
type Files struct {
	Bank         string
	Expenses     string
	Income       string
	BankExpenses string
	BankIncome   string
	Manifest     string
}

// FilesFor derives file names from the schema's sheet names.
func FilesFor(schema models.Schema) Files {
	return Files{
		Bank:         schema.Sheet(models.Bank) + ".csv",
		Expenses:     schema.Sheet(models.Expense) + ".csv",
		Income:       schema.Sheet(models.Income) + ".csv",
		BankExpenses: schema.CrossSheet(models.Expense) + ".csv",
		BankIncome:   schema.CrossSheet(models.Income) + ".csv",
		Manifest:     "workbook.yaml",
	}
}

func (f Files) ledger(k models.Kind) string {
	switch k {
	case models.Bank:
		return f.Bank
	case models.Expense:
		return f.Expenses
	default:
		return f.Income
	}
}

// Manifest describes a saved workbook.
type Manifest struct {
	Version  int               `yaml:"version"`
	SavedAt  time.Time         `yaml:"saved_at"`
	Currency string            `yaml:"currency,omitempty"`
	Sheets   map[string]string `yaml:"sheets"`
	Rows     map[string]int    `yaml:"rows"`
	Buckets  int               `yaml:"buckets"`
	Summary  *audit.Summary    `yaml:"summary,omitempty"`
}

// Snapshot is everything Save writes.
type Snapshot struct {
	Ledgers models.Ledgers
	// Links holds the cross-reference rows indexed by counterpart kind.
	Links    [models.NumKinds][]audit.Link
	Summary  *audit.Summary
	Currency string
}

// WorkbookStore reads and writes one workbook directory.
type WorkbookStore struct {
	Dir       string
	Files     Files
	Delimiter rune
	schema    models.Schema
	logger    logging.Logger
}

// NewWorkbookStore creates a store for dir.
func NewWorkbookStore(dir string, schema models.Schema, files Files, delimiter rune, logger logging.Logger) *WorkbookStore {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if delimiter == 0 {
		delimiter = common.DefaultDelimiter
	}
	return &WorkbookStore{Dir: dir, Files: files, Delimiter: delimiter, schema: schema, logger: logger}
}

// Exists reports whether the directory holds at least one ledger sheet.
func (w *WorkbookStore) Exists() bool {
	for _, k := range models.Kinds {
		if fileutils.FileExists(w.path(w.Files.ledger(k))) {
			return true
		}
	}
	return false
}

func (w *WorkbookStore) path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Load reads every ledger sheet present. Missing sheets leave their slot
// nil. A ledger is flagged HasBuckets when its sheet has a Bucket column.
func (w *WorkbookStore) Load() (models.Ledgers, error) {
	var ls models.Ledgers
	for _, k := range models.Kinds {
		path := w.path(w.Files.ledger(k))
		if !fileutils.FileExists(path) {
			w.logger.Debug("Sheet not found", logging.F(logging.FieldKind, k.String()), logging.F(logging.FieldFile, path))
			continue
		}
		l, err := w.loadLedger(k, path)
		if err != nil {
			return models.Ledgers{}, err
		}
		ls[k] = l
	}
	w.logger.Info("Workbook loaded", logging.F(logging.FieldDirectory, w.Dir), logging.F(logging.FieldCount, len(ls.Present())))
	return ls, nil
}

func (w *WorkbookStore) loadLedger(k models.Kind, path string) (*models.Ledger, error) {
	header, err := common.ReadHeader(path, w.Delimiter)
	if err != nil {
		return nil, err
	}

	type record struct {
		cells  map[string]string
		bucket models.Bucket
	}
	var records []record
	switch k {
	case models.Bank:
		rows, err := common.ReadCSVFile[bankRecord](path, w.Delimiter, w.logger)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			records = append(records, record{r.cells(), r.Bucket})
		}
	case models.Expense:
		rows, err := common.ReadCSVFile[expenseRecord](path, w.Delimiter, w.logger)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			records = append(records, record{r.cells(), r.Bucket})
		}
	case models.Income:
		rows, err := common.ReadCSVFile[incomeRecord](path, w.Delimiter, w.logger)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			records = append(records, record{r.cells(), r.Bucket})
		}
	}

	l := &models.Ledger{Kind: k, HasBuckets: slices.Contains(header, models.ColBucket)}
	for i, rec := range records {
		if models.IsBlank(rec.cells[w.schema.CashColumn(k)]) {
			w.logger.Debug("Skipping row without amount",
				logging.F(logging.FieldKind, k.String()),
				logging.F("row", i))
			continue
		}
		e, err := w.schema.BuildEntry(k, rec.cells)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		row := models.NewRow(e)
		row.Bucket = rec.bucket
		l.Rows = append(l.Rows, row)
	}
	return l, nil
}

// LoadManifest reads the manifest, returning nil when there is none.
func (w *WorkbookStore) LoadManifest() (*Manifest, error) {
	path := w.path(w.Files.Manifest)
	if !fileutils.FileExists(path) {
		return nil, nil
	}
	data, err := fileutils.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// Save writes the snapshot into a staging directory and then moves every
// file into place, so a failed write leaves the previous workbook intact.
func (w *WorkbookStore) Save(snap Snapshot) error {
	staging, err := fileutils.StagingDir(w.Dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := os.RemoveAll(staging); err != nil {
			w.logger.WithError(err).Warn("Failed to remove staging directory")
		}
	}()

	var names []string
	write := func(name string, fn func(path string) error) error {
		if err := fn(filepath.Join(staging, name)); err != nil {
			return fmt.Errorf("error writing %s: %w", name, err)
		}
		names = append(names, name)
		return nil
	}

	manifest := Manifest{
		Version:  ManifestVersion,
		SavedAt:  time.Now().UTC().Truncate(time.Second),
		Currency: snap.Currency,
		Sheets:   make(map[string]string),
		Rows:     make(map[string]int),
		Summary:  snap.Summary,
	}

	for _, k := range snap.Ledgers.Present() {
		l := snap.Ledgers[k]
		name := w.Files.ledger(k)
		err := write(name, func(path string) error {
			switch k {
			case models.Bank:
				return common.WriteCSVFile(toBankRecords(l), path, w.Delimiter, w.logger)
			case models.Expense:
				return common.WriteCSVFile(toExpenseRecords(l), path, w.Delimiter, w.logger)
			default:
				return common.WriteCSVFile(toIncomeRecords(l), path, w.Delimiter, w.logger)
			}
		})
		if err != nil {
			return err
		}
		manifest.Sheets[k.String()] = name
		manifest.Rows[k.String()] = l.Len()
	}
	manifest.Buckets = len(snap.Ledgers.Get(models.Bank).BucketSet())

	if snap.Ledgers.Get(models.Bank) != nil {
		if l := snap.Ledgers[models.Expense]; l != nil {
			links := bankExpenseLinks(snap.Ledgers[models.Bank], l, snap.Links[models.Expense])
			if err := write(w.Files.BankExpenses, func(path string) error {
				return common.WriteCSVFile(links, path, w.Delimiter, w.logger)
			}); err != nil {
				return err
			}
		}
		if l := snap.Ledgers[models.Income]; l != nil {
			links := bankIncomeLinks(snap.Ledgers[models.Bank], l, snap.Links[models.Income])
			if err := write(w.Files.BankIncome, func(path string) error {
				return common.WriteCSVFile(links, path, w.Delimiter, w.logger)
			}); err != nil {
				return err
			}
		}
	}

	if err := write(w.Files.Manifest, func(path string) error {
		data, err := yaml.Marshal(&manifest)
		if err != nil {
			return err
		}
		return fileutils.WriteFile(path, data, 0600)
	}); err != nil {
		return err
	}

	if err := fileutils.MoveFiles(staging, w.Dir, names); err != nil {
		return err
	}
	w.logger.Info("Workbook saved",
		logging.F(logging.FieldDirectory, w.Dir),
		logging.F(logging.FieldCount, len(names)))
	return nil
}

func bankExpenseLinks(bank, exp *models.Ledger, links []audit.Link) []bankExpenseLink {
	out := make([]bankExpenseLink, 0, len(links))
	for _, link := range links {
		rec := bankExpenseLink{Bucket: link.Bucket}
		if link.BankRow >= 0 {
			b := bank.Rows[link.BankRow].Entry.(models.BankEntry)
			rec.Concept, rec.Amount = b.Concept, b.Amount.String()
		}
		if link.OtherRow >= 0 {
			e := exp.Rows[link.OtherRow].Entry.(models.ExpenseEntry)
			rec.Expense, rec.Payment, rec.Refund, rec.Estate = e.Concept, e.Payment.String(), e.Refund.String(), e.Estate
		}
		out = append(out, rec)
	}
	return out
}

func bankIncomeLinks(bank, inc *models.Ledger, links []audit.Link) []bankIncomeLink {
	out := make([]bankIncomeLink, 0, len(links))
	for _, link := range links {
		rec := bankIncomeLink{Bucket: link.Bucket}
		if link.BankRow >= 0 {
			b := bank.Rows[link.BankRow].Entry.(models.BankEntry)
			rec.Concept, rec.Amount = b.Concept, b.Amount.String()
		}
		if link.OtherRow >= 0 {
			e := inc.Rows[link.OtherRow].Entry.(models.IncomeEntry)
			rec.Unit, rec.Tenant, rec.Date = e.Unit, e.Tenant, e.Date
			rec.Paid, rec.Pending, rec.Estate = e.Paid.String(), e.Pending.String(), e.Estate
		}
		out = append(out, rec)
	}
	return out
}
