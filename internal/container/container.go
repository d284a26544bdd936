// Package container provides dependency injection for the conciliation application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/conciliation/internal/batch"
	"fjacquet/conciliation/internal/config"
	"fjacquet/conciliation/internal/ingest"
	"fjacquet/conciliation/internal/logging"
	"fjacquet/conciliation/internal/models"
	"fjacquet/conciliation/internal/report"
	"fjacquet/conciliation/internal/scanner"
	"fjacquet/conciliation/internal/store"
	"fjacquet/conciliation/pkg/conciliation"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	schema     models.Schema
	reader     *ingest.Reader
	scanner    *scanner.StatementScanner
	aggregator *batch.Aggregator
	generator  *report.Generator
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger wires the dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	schema := cfg.Schema()
	c := &Container{
		logger:     logger,
		config:     cfg,
		schema:     schema,
		reader:     ingest.NewReader(schema, cfg.IngestOptions(), logger),
		scanner:    scanner.NewStatementScanner(logger, ingest.StatementExtensions...),
		aggregator: batch.NewAggregator(logger),
		generator:  report.NewGenerator(logger),
	}

	logger.Debug("Container initialized",
		logging.F("currency", cfg.Currency),
		logging.F("tolerance_cents", cfg.Matching.ToleranceCents),
		logging.F(logging.FieldDelimiter, cfg.CSV.Delimiter))
	return c, nil
}

// Files returns the configured workbook file names.
func (c *Container) Files() store.Files {
	wb := c.config.Workbook
	return store.Files{
		Bank:         wb.BankFile,
		Expenses:     wb.ExpensesFile,
		Income:       wb.IncomeFile,
		BankExpenses: wb.BankExpensesFile,
		BankIncome:   wb.BankIncomeFile,
		Manifest:     wb.ManifestFile,
	}
}

// SessionOptions returns the options every session is created with.
func (c *Container) SessionOptions() conciliation.Options {
	return conciliation.Options{
		Schema:    c.schema,
		Files:     c.Files(),
		Delimiter: c.config.Delimiter(),
		Currency:  c.config.Currency,
		Matcher:   c.config.MatcherOptions(),
		Logger:    c.logger,
	}
}

// NewSession creates an empty session saving to dir.
func (c *Container) NewSession(dir string) *conciliation.Session {
	return conciliation.New(dir, c.SessionOptions())
}

// OpenSession loads the workbook saved in dir.
func (c *Container) OpenSession(dir string) (*conciliation.Session, error) {
	return conciliation.Open(dir, c.SessionOptions())
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetSchema returns the ledger layout.
func (c *Container) GetSchema() models.Schema {
	return c.schema
}

// GetReader returns the statement reader.
func (c *Container) GetReader() *ingest.Reader {
	return c.reader
}

// ReadStatements reads the bank statements named by paths, directories
// expanded, into one bank ledger.
func (c *Container) ReadStatements(paths []string) (*models.Ledger, error) {
	files, err := c.scanner.ScanPaths(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 1 {
		return c.reader.ReadBank(files[0])
	}
	return c.aggregator.Aggregate(c.aggregator.Order(files), c.reader.ReadBank)
}

// GetReportGenerator returns the summary renderer.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.generator
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
