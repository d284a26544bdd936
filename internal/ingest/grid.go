// Package ingest reads bank statements and settlement workbooks into
// ledgers. Spreadsheet sources are first flattened into grids of cell text
// so that header detection and block splitting work the same way for
// workbooks and .csv files.
package ingest

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/conciliation/internal/fileutils"
	"fjacquet/conciliation/internal/models"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// WorkbookExtensions are the spreadsheet formats readWorkbook accepts.
var WorkbookExtensions = []string{".xlsx", ".xls"}

func isWorkbook(ext string) bool {
	for _, e := range WorkbookExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Sheet is one worksheet flattened into rows of cell text. Missing rows and
// cells are empty.
type Sheet struct {
	Name  string
	Cells [][]string
}

// Cell returns the trimmed text at (row, col), or "" outside the grid.
func (s Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Cells) {
		return ""
	}
	cells := s.Cells[row]
	if col < 0 || col >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[col])
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if !models.IsBlank(c) {
			return false
		}
	}
	return true
}

// readWorkbook flattens every sheet of a workbook, in sheet order. The
// charset only applies to legacy .xls files.
func readWorkbook(path, charset string) ([]Sheet, error) {
	if fileutils.Ext(path) == ".xlsx" {
		return readXLSX(path)
	}
	return readXLS(path, charset)
}

func readXLSX(path string) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error parsing workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	names := f.GetSheetList()
	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("error reading sheet %q of %s: %w", name, path, err)
		}
		sheets = append(sheets, Sheet{Name: name, Cells: rows})
	}
	return sheets, nil
}

func readXLS(path, charset string) ([]Sheet, error) {
	file, err := os.Open(path) // #nosec G304 -- path chosen by the operator
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	wb, err := xls.OpenReader(file, charset)
	if err != nil {
		return nil, fmt.Errorf("error parsing workbook %s: %w", path, err)
	}

	sheets := make([]Sheet, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		sheet := Sheet{Name: ws.Name, Cells: make([][]string, 0, int(ws.MaxRow)+1)}
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				sheet.Cells = append(sheet.Cells, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells[c] = row.Col(c)
			}
			sheet.Cells = append(sheet.Cells, cells)
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}
