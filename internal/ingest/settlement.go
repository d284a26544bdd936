package ingest

import (
	"fmt"
	"strings"

	"fjacquet/conciliation/internal/dateutils"
	"fjacquet/conciliation/internal/fileutils"
	"fjacquet/conciliation/internal/logging"
	"fjacquet/conciliation/internal/models"
	"fjacquet/conciliation/internal/reconerror"
	"fjacquet/conciliation/internal/textutils"
)

// Block titles of a settlement sheet.
const (
	IncomeTitle  = "DETALLE DE INGRESOS (COBRO)"
	ExpenseTitle = "DETALLE DE GASTOS (PAGOS)"
)

const (
	// estateRow holds the "Finca: ..." cell; the blocks start right below.
	estateRow      = 7
	estateLabelLen = 7
)

// SplitSettlement reads a property manager settlement workbook and returns
// its Expense and Income ledgers. The Bank slot is left empty.
func (r *Reader) SplitSettlement(path string) (models.Ledgers, error) {
	if !fileutils.FileExists(path) {
		return models.Ledgers{}, fmt.Errorf("settlement workbook not found: %s", path)
	}
	if ext := fileutils.Ext(path); !isWorkbook(ext) {
		return models.Ledgers{}, fmt.Errorf("unsupported settlement format %q", ext)
	}
	r.logger.Info("Splitting settlement workbook", logging.F(logging.FieldInputFile, path))

	sheets, err := readWorkbook(path, r.opts.Charset)
	if err != nil {
		return models.Ledgers{}, err
	}
	return r.SplitSheets(path, sheets)
}

// SplitSheets splits already flattened settlement sheets. Every sheet but
// the last describes one property; the last one is a summary and is skipped.
func (r *Reader) SplitSheets(path string, sheets []Sheet) (models.Ledgers, error) {
	expenses := &models.Ledger{Kind: models.Expense}
	income := &models.Ledger{Kind: models.Income}
	var found [models.NumKinds]bool

	for i := 0; i < len(sheets)-1; i++ {
		sheet := sheets[i]
		estate := textutils.TrimLabel(sheet.Cell(estateRow, 0), estateLabelLen)

		for _, block := range settlementBlocks(sheet) {
			title := firstCell(block[0])
			kind, ok := blockKind(title)
			if !ok {
				r.logger.Warn("Unknown settlement block skipped",
					logging.F(logging.FieldSheet, sheet.Name),
					logging.F(logging.FieldReason, title))
				continue
			}

			target := expenses
			if kind == models.Income {
				target = income
			}
			rows, err := r.blockRows(path, sheet.Name, kind, block, estate)
			if err != nil {
				return models.Ledgers{}, err
			}
			target.Rows = append(target.Rows, rows...)
			found[kind] = true

			r.logger.Debug("Settlement block read",
				logging.F(logging.FieldSheet, sheet.Name),
				logging.F(logging.FieldKind, kind.String()),
				logging.F(logging.FieldCount, len(rows)))
		}
	}

	if !found[models.Expense] && !found[models.Income] {
		return models.Ledgers{}, &reconerror.ImportIncompleteError{
			FilePath: path,
			Kind:     "settlement",
			Reason:   "no income or expense block found",
		}
	}
	for _, k := range models.Counterparts {
		if !found[k] {
			r.logger.Warn("Settlement has no block for ledger",
				logging.F(logging.FieldInputFile, path),
				logging.F(logging.FieldKind, k.String()))
		}
	}

	var ledgers models.Ledgers
	ledgers.Set(expenses)
	ledgers.Set(income)
	r.logger.Info("Settlement split",
		logging.F(logging.FieldInputFile, path),
		logging.F("expenses", expenses.Len()),
		logging.F("income", income.Len()))
	return ledgers, nil
}

// settlementBlocks returns the compacted blocks of a property sheet. The
// rows below the estate cell are cut at the first entirely empty row; each
// side becomes a block once empty rows and columns are dropped. Blocks with
// fewer than two rows are discarded.
func settlementBlocks(sheet Sheet) [][][]string {
	if len(sheet.Cells) <= estateRow {
		return nil
	}
	body := sheet.Cells[estateRow:]

	cut := -1
	for i := 1; i < len(body); i++ {
		if blankRow(body[i]) {
			cut = i
			break
		}
	}

	var parts [][][]string
	if cut < 0 {
		parts = append(parts, body[1:])
	} else {
		parts = append(parts, body[1:cut], body[cut+1:])
	}

	var blocks [][][]string
	for _, part := range parts {
		if block := compact(part); len(block) >= 2 {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// compact drops the empty rows and columns of a grid and trims every cell.
func compact(grid [][]string) [][]string {
	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}
	keep := make([]bool, width)
	for _, row := range grid {
		for c, cell := range row {
			if !models.IsBlank(cell) {
				keep[c] = true
			}
		}
	}

	var out [][]string
	for _, row := range grid {
		if blankRow(row) {
			continue
		}
		cells := make([]string, 0, width)
		for c := 0; c < width; c++ {
			if !keep[c] {
				continue
			}
			cell := ""
			if c < len(row) && !models.IsBlank(row[c]) {
				cell = strings.TrimSpace(row[c])
			}
			cells = append(cells, cell)
		}
		out = append(out, cells)
	}
	return out
}

func firstCell(cells []string) string {
	for _, c := range cells {
		if c != "" {
			return c
		}
	}
	return ""
}

func blockKind(title string) (models.Kind, bool) {
	title = strings.ToUpper(strings.Join(strings.Fields(title), " "))
	switch title {
	case IncomeTitle:
		return models.Income, true
	case ExpenseTitle:
		return models.Expense, true
	}
	return 0, false
}

// blockRows converts a block into rows: the second row is the header, the
// last row holds totals and is dropped.
func (r *Reader) blockRows(path, sheetName string, kind models.Kind, block [][]string, estate string) ([]models.Row, error) {
	header := block[1]
	cash := r.schema.CashColumn(kind)
	if !r.schema.IsHeader(kind, append(append([]string(nil), header...), models.ColEstate)) || indexOf(header, cash) < 0 {
		return nil, &reconerror.ImportIncompleteError{
			FilePath: path,
			Kind:     kind.String(),
			Reason:   fmt.Sprintf("unrecognised header %v in sheet %q", header, sheetName),
		}
	}

	var rows []models.Row
	for i := 2; i < len(block)-1; i++ {
		record := recordOf(header, block[i])
		if models.IsBlank(record[cash]) {
			continue
		}
		record[models.ColEstate] = estate
		if kind == models.Income && !models.IsBlank(record[models.ColDate]) {
			record[models.ColDate] = dateutils.Normalize(record[models.ColDate])
		}

		entry, err := r.schema.BuildEntry(kind, record)
		if err != nil {
			return nil, &reconerror.ImportIncompleteError{
				FilePath: path,
				Kind:     kind.String(),
				Reason:   fmt.Sprintf("sheet %q", sheetName),
				Err:      err,
			}
		}
		rows = append(rows, models.NewRow(entry))
	}
	return rows, nil
}
