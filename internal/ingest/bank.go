package ingest

import (
	"fmt"
	"strings"

	"fjacquet/conciliation/internal/common"
	"fjacquet/conciliation/internal/fileutils"
	"fjacquet/conciliation/internal/logging"
	"fjacquet/conciliation/internal/models"
	"fjacquet/conciliation/internal/reconerror"
)

// DefaultHeaderRows are the rows searched for the bank header: exports put
// it either on the first line or below a seven line preamble.
var DefaultHeaderRows = []int{0, 7}

// StatementExtensions are the bank statement formats ReadBank understands.
var StatementExtensions = []string{".xlsx", ".xls", ".csv", ".xml"}

// DefaultCharset is the text encoding assumed for .xls workbooks.
const DefaultCharset = "utf-8"

// Options tunes how source files are read.
type Options struct {
	HeaderRows []int
	Charset    string
	Delimiter  rune
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		HeaderRows: append([]int(nil), DefaultHeaderRows...),
		Charset:    DefaultCharset,
		Delimiter:  common.DefaultDelimiter,
	}
}

// Reader turns source files into ledgers.
type Reader struct {
	schema models.Schema
	opts   Options
	logger logging.Logger
}

// NewReader creates a reader. Zero option fields fall back to the defaults.
func NewReader(schema models.Schema, opts Options, logger logging.Logger) *Reader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	def := DefaultOptions()
	if len(opts.HeaderRows) == 0 {
		opts.HeaderRows = def.HeaderRows
	}
	if opts.Charset == "" {
		opts.Charset = def.Charset
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = def.Delimiter
	}
	return &Reader{schema: schema, opts: opts, logger: logger}
}

// ReadBank reads a bank statement. The format is chosen from the file
// extension: .xlsx or .xls workbooks, .xml CAMT.053 statements or .csv
// exports.
func (r *Reader) ReadBank(path string) (*models.Ledger, error) {
	if !fileutils.FileExists(path) {
		return nil, fmt.Errorf("bank statement not found: %s", path)
	}
	r.logger.Info("Reading bank statement", logging.F(logging.FieldInputFile, path))

	var (
		ledger *models.Ledger
		err    error
	)
	switch ext := fileutils.Ext(path); ext {
	case ".xlsx", ".xls":
		var sheets []Sheet
		sheets, err = readWorkbook(path, r.opts.Charset)
		if err != nil {
			break
		}
		if len(sheets) == 0 {
			return nil, &reconerror.ImportIncompleteError{
				FilePath: path, Kind: models.Bank.String(), Reason: "workbook has no sheets",
			}
		}
		ledger, err = r.BankFromSheet(path, sheets[0])
	case ".csv":
		var records [][]string
		records, err = common.ReadRecords(path, r.opts.Delimiter)
		if err != nil {
			break
		}
		ledger, err = r.BankFromSheet(path, Sheet{Name: models.Bank.String(), Cells: records})
	case ".xml":
		ledger, err = r.readCAMT(path)
	default:
		return nil, fmt.Errorf("unsupported bank statement format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("Bank statement read",
		logging.F(logging.FieldInputFile, path),
		logging.F(logging.FieldCount, ledger.Len()))
	return ledger, nil
}

// BankFromSheet builds the bank ledger from a flattened sheet. The header is
// looked up among the configured rows; data starts on the next row and rows
// with an empty amount are dropped.
func (r *Reader) BankFromSheet(path string, sheet Sheet) (*models.Ledger, error) {
	headerRow := -1
	for _, row := range r.opts.HeaderRows {
		if row >= 0 && row < len(sheet.Cells) && r.schema.IsHeader(models.Bank, sheet.Cells[row]) {
			headerRow = row
			break
		}
	}
	if headerRow < 0 {
		return nil, &reconerror.ImportIncompleteError{
			FilePath: path,
			Kind:     models.Bank.String(),
			Reason:   fmt.Sprintf("no header row among rows %v of sheet %q", r.opts.HeaderRows, sheet.Name),
		}
	}

	header := sheet.Cells[headerRow]
	cash := r.schema.CashColumn(models.Bank)
	if indexOf(header, cash) < 0 {
		return nil, &reconerror.ImportIncompleteError{
			FilePath: path,
			Kind:     models.Bank.String(),
			Reason:   fmt.Sprintf("column %q not found", cash),
		}
	}

	ledger := &models.Ledger{Kind: models.Bank}
	for i := headerRow + 1; i < len(sheet.Cells); i++ {
		record := recordOf(header, sheet.Cells[i])
		if models.IsBlank(record[cash]) {
			continue
		}
		entry, err := r.schema.BuildEntry(models.Bank, record)
		if err != nil {
			return nil, &reconerror.ImportIncompleteError{
				FilePath: path,
				Kind:     models.Bank.String(),
				Reason:   fmt.Sprintf("row %d", i+1),
				Err:      err,
			}
		}
		ledger.Rows = append(ledger.Rows, models.NewRow(entry))
	}

	r.logger.Debug("Bank header located",
		logging.F(logging.FieldSheet, sheet.Name),
		logging.F("header_row", headerRow),
		logging.F(logging.FieldCount, ledger.Len()))
	return ledger, nil
}

func indexOf(cells []string, name string) int {
	for i, c := range cells {
		if strings.TrimSpace(c) == name {
			return i
		}
	}
	return -1
}

// recordOf keys the cells of a data row by the header names. Blank header
// cells are skipped; the first occurrence of a repeated name wins.
func recordOf(header, cells []string) map[string]string {
	record := make(map[string]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, seen := record[name]; seen {
			continue
		}
		if i < len(cells) {
			record[name] = cells[i]
		} else {
			record[name] = ""
		}
	}
	return record
}
