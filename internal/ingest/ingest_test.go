package ingest_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/conciliation/internal/ingest"
	"fjacquet/conciliation/internal/logging"
	"fjacquet/conciliation/internal/models"
	"fjacquet/conciliation/internal/reconerror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newReader(logger logging.Logger) *ingest.Reader {
	return ingest.NewReader(models.DefaultSchema(), ingest.Options{}, logger)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func bankAt(t *testing.T, l *models.Ledger, i int) models.BankEntry {
	t.Helper()
	e, ok := l.Rows[i].Entry.(models.BankEntry)
	require.True(t, ok)
	return e
}

func TestReadBank_CSV(t *testing.T) {
	t.Run("header on first row", func(t *testing.T) {
		path := writeFile(t, "bank.csv", "Concepto,Importe\nRecibo 1A,\"500,00\"\nSaldo,\nLimpieza,-45\n")

		ledger, err := newReader(nil).ReadBank(path)
		require.NoError(t, err)
		require.Equal(t, 2, ledger.Len())
		assert.Equal(t, models.Bank, ledger.Kind)
		assert.Equal(t, "Recibo 1A", bankAt(t, ledger, 0).Concept)
		assert.True(t, decimal.NewFromInt(500).Equal(bankAt(t, ledger, 0).Amount))
		assert.True(t, decimal.NewFromInt(-45).Equal(bankAt(t, ledger, 1).Amount))
	})

	t.Run("header below preamble", func(t *testing.T) {
		content := "Banco\nCuenta\nTitular\nPeriodo\nDesde\nHasta\nMoneda\nFecha,Concepto,Importe,Saldo\n02/01/2024,Transferencia,120.5,1000\n"
		path := writeFile(t, "bank.csv", content)

		ledger, err := newReader(nil).ReadBank(path)
		require.NoError(t, err)
		require.Equal(t, 1, ledger.Len())
		assert.Equal(t, "Transferencia", bankAt(t, ledger, 0).Concept)
		assert.Equal(t, int64(12050), func() int64 { r := ledger.Rows[0]; r.Price(); return r.Cents }())
	})

	t.Run("header missing one column is accepted", func(t *testing.T) {
		path := writeFile(t, "bank.csv", "Importe\n10\n")

		ledger, err := newReader(nil).ReadBank(path)
		require.NoError(t, err)
		require.Equal(t, 1, ledger.Len())
		assert.Empty(t, bankAt(t, ledger, 0).Concept)
	})

	t.Run("no header row", func(t *testing.T) {
		path := writeFile(t, "bank.csv", "a,b\n1,2\n")

		_, err := newReader(nil).ReadBank(path)
		var importErr *reconerror.ImportIncompleteError
		require.True(t, errors.As(err, &importErr))
		assert.Equal(t, "bank", importErr.Kind)
	})

	t.Run("cash column missing", func(t *testing.T) {
		path := writeFile(t, "bank.csv", "Concepto,Saldo\nx,1\n")

		_, err := newReader(nil).ReadBank(path)
		var importErr *reconerror.ImportIncompleteError
		require.True(t, errors.As(err, &importErr))
		assert.Contains(t, importErr.Reason, "Importe")
	})

	t.Run("unparseable amount", func(t *testing.T) {
		path := writeFile(t, "bank.csv", "Concepto,Importe\nx,abc\n")

		_, err := newReader(nil).ReadBank(path)
		var importErr *reconerror.ImportIncompleteError
		require.True(t, errors.As(err, &importErr))
		assert.Error(t, importErr.Unwrap())
	})
}

func TestReadBank_CAMT(t *testing.T) {
	statement := `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
	<BkToCstmrStmt><Stmt>
		<Acct><Id><IBAN>ES9121000418450200051332</IBAN></Id></Acct>
		<Ntry>
			<Amt Ccy="EUR">500.00</Amt>
			<CdtDbtInd>CRDT</CdtDbtInd>
			<NtryDtls><TxDtls><RmtInf><Ustrd>Recibo 1A</Ustrd></RmtInf></TxDtls></NtryDtls>
		</Ntry>
		<Ntry>
			<Amt Ccy="EUR">45.00</Amt>
			<CdtDbtInd>DBIT</CdtDbtInd>
			<AddtlNtryInf>Limpieza portal</AddtlNtryInf>
		</Ntry>
	</Stmt></BkToCstmrStmt>
</Document>`
	path := writeFile(t, "statement.xml", statement)
	logger := logging.NewMockLogger()

	ledger, err := newReader(logger).ReadBank(path)
	require.NoError(t, err)
	require.Equal(t, 2, ledger.Len())

	assert.Equal(t, "Recibo 1A", bankAt(t, ledger, 0).Concept)
	assert.True(t, decimal.NewFromInt(500).Equal(bankAt(t, ledger, 0).Amount))
	assert.Equal(t, "Limpieza portal", bankAt(t, ledger, 1).Concept)
	assert.True(t, decimal.NewFromInt(-45).Equal(bankAt(t, ledger, 1).Amount))
	assert.True(t, logger.HasEntry("INFO", "Bank statement read"))
	assert.Empty(t, logger.GetEntriesByLevel("WARN"))

	for _, e := range logger.GetEntriesByLevel("DEBUG") {
		if e.Message == "CAMT entries extracted" {
			account, _ := e.FieldValue("account")
			assert.Equal(t, "ES9121000418450200051332", account)
		}
	}
}

func TestReadBank_CAMTSeveralAccounts(t *testing.T) {
	statement := `<Document><BkToCstmrStmt>
	<Stmt>
		<Acct><Id><IBAN>ES01</IBAN></Id></Acct>
		<Ntry><Amt Ccy="EUR">10</Amt><CdtDbtInd>CRDT</CdtDbtInd><AddtlNtryInf>a</AddtlNtryInf></Ntry>
	</Stmt>
	<Stmt>
		<Acct><Id><IBAN>ES02</IBAN></Id></Acct>
		<Ntry><Amt Ccy="USD">20</Amt><CdtDbtInd>DBIT</CdtDbtInd><AddtlNtryInf>b</AddtlNtryInf></Ntry>
	</Stmt>
</BkToCstmrStmt></Document>`
	logger := logging.NewMockLogger()

	ledger, err := newReader(logger).ReadBank(writeFile(t, "statement.xml", statement))
	require.NoError(t, err)
	require.Equal(t, 2, ledger.Len())
	assert.True(t, decimal.NewFromInt(-20).Equal(bankAt(t, ledger, 1).Amount))
	assert.True(t, logger.HasEntry("WARN", "Statement holds several accounts, reading all of them"))
	assert.True(t, logger.HasEntry("WARN", "Statement mixes currencies, amounts are read as they are"))
}

func TestReadBank_CAMTWithoutEntries(t *testing.T) {
	path := writeFile(t, "statement.xml", `<Document><BkToCstmrStmt><Stmt/></BkToCstmrStmt></Document>`)

	_, err := newReader(nil).ReadBank(path)
	var importErr *reconerror.ImportIncompleteError
	assert.True(t, errors.As(err, &importErr))
}

func TestReadBank_Errors(t *testing.T) {
	_, err := newReader(nil).ReadBank(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = newReader(nil).ReadBank(writeFile(t, "bank.txt", "Concepto,Importe\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestBankFromSheet_CustomHeaderRows(t *testing.T) {
	reader := ingest.NewReader(models.DefaultSchema(), ingest.Options{HeaderRows: []int{2}}, nil)
	sheet := ingest.Sheet{Name: "Hoja1", Cells: [][]string{
		{"Extracto"},
		nil,
		{"Concepto", "Importe"},
		{"Recibo", "10,5"},
	}}

	ledger, err := reader.BankFromSheet("bank.xls", sheet)
	require.NoError(t, err)
	require.Equal(t, 1, ledger.Len())
	assert.True(t, decimal.RequireFromString("10.5").Equal(bankAt(t, ledger, 0).Amount))
}

func propertySheet(name, estate string) ingest.Sheet {
	cells := make([][]string, 7)
	cells[0] = []string{"LIQUIDACION DE ALQUILERES"}
	cells = append(cells,
		[]string{"Finca: " + estate},
		[]string{"DETALLE DE INGRESOS (COBRO)"},
		[]string{"Piso/Local", "Inquilino", "Fecha", "Cobrado", "Pendiente"},
		[]string{"1A", "Ana", "15/01/2024", "500,00", "0"},
		[]string{"2B", "Luis", "45323", "450", "50"},
		[]string{"3C", "Vacío", "", "", "0"},
		[]string{"TOTAL", "", "", "950", "50"},
		[]string{"", "", ""},
		[]string{"", "DETALLE DE GASTOS (PAGOS)"},
		[]string{"", "CONCEPTO", "Pagos", "Abonos"},
		[]string{"", "Limpieza", "45", ""},
		[]string{"", "TOTAL", "45", "0"},
	)
	return ingest.Sheet{Name: name, Cells: cells}
}

func TestSplitSheets(t *testing.T) {
	summary := propertySheet("Resumen", "todas")
	sheets := []ingest.Sheet{propertySheet("Mayor", "Mayor 12"), propertySheet("Sol", "Sol 3"), summary}

	ledgers, err := newReader(nil).SplitSheets("liquidacion.xls", sheets)
	require.NoError(t, err)
	assert.Nil(t, ledgers.Get(models.Bank))

	income := ledgers.Get(models.Income)
	require.NotNil(t, income)
	require.Equal(t, 4, income.Len())

	first, ok := income.Rows[0].Entry.(models.IncomeEntry)
	require.True(t, ok)
	assert.Equal(t, "1A", first.Unit)
	assert.Equal(t, "Ana", first.Tenant)
	assert.Equal(t, "15/01/2024", first.Date)
	assert.True(t, decimal.NewFromInt(500).Equal(first.Paid))
	assert.Equal(t, "Mayor 12", first.Estate)

	second := income.Rows[1].Entry.(models.IncomeEntry)
	assert.Equal(t, "01/02/2024", second.Date)
	assert.True(t, decimal.NewFromInt(50).Equal(second.Pending))

	last := income.Rows[3].Entry.(models.IncomeEntry)
	assert.Equal(t, "Sol 3", last.Estate)

	expenses := ledgers.Get(models.Expense)
	require.NotNil(t, expenses)
	require.Equal(t, 2, expenses.Len())
	exp := expenses.Rows[0].Entry.(models.ExpenseEntry)
	assert.Equal(t, "Limpieza", exp.Concept)
	assert.True(t, decimal.NewFromInt(45).Equal(exp.Payment))
	assert.True(t, exp.Refund.IsZero())
	assert.Equal(t, "Mayor 12", exp.Estate)
}

func TestSplitSheets_SingleBlock(t *testing.T) {
	sheet := propertySheet("Mayor", "Mayor 12")
	sheet.Cells = sheet.Cells[:14]
	logger := logging.NewMockLogger()

	ledgers, err := newReader(logger).SplitSheets("liquidacion.xls", []ingest.Sheet{sheet, {Name: "Resumen"}})
	require.NoError(t, err)
	assert.Equal(t, 2, ledgers.Get(models.Income).Len())
	assert.Equal(t, 0, ledgers.Get(models.Expense).Len())
	assert.True(t, logger.HasEntry("WARN", "Settlement has no block for ledger"))
}

func TestSplitSheets_Errors(t *testing.T) {
	t.Run("only a summary sheet", func(t *testing.T) {
		_, err := newReader(nil).SplitSheets("s.xls", []ingest.Sheet{propertySheet("Resumen", "x")})
		var importErr *reconerror.ImportIncompleteError
		assert.True(t, errors.As(err, &importErr))
	})

	t.Run("short blocks are ignored", func(t *testing.T) {
		sheet := ingest.Sheet{Name: "Mayor", Cells: [][]string{
			nil, nil, nil, nil, nil, nil, nil,
			{"Finca: Mayor 12"},
			{"DETALLE DE INGRESOS (COBRO)"},
		}}
		_, err := newReader(nil).SplitSheets("s.xls", []ingest.Sheet{sheet, {Name: "Resumen"}})
		var importErr *reconerror.ImportIncompleteError
		assert.True(t, errors.As(err, &importErr))
	})

	t.Run("unknown block title", func(t *testing.T) {
		sheet := propertySheet("Mayor", "Mayor 12")
		sheet.Cells[8] = []string{"OTROS"}
		logger := logging.NewMockLogger()

		ledgers, err := newReader(logger).SplitSheets("s.xls", []ingest.Sheet{sheet, {Name: "Resumen"}})
		require.NoError(t, err)
		assert.Equal(t, 0, ledgers.Get(models.Income).Len())
		assert.True(t, logger.HasEntry("WARN", "Unknown settlement block skipped"))
	})

	t.Run("unrecognised header", func(t *testing.T) {
		sheet := propertySheet("Mayor", "Mayor 12")
		sheet.Cells[9] = []string{"A", "B", "C", "D", "E"}

		_, err := newReader(nil).SplitSheets("s.xls", []ingest.Sheet{sheet, {Name: "Resumen"}})
		var importErr *reconerror.ImportIncompleteError
		require.True(t, errors.As(err, &importErr))
		assert.Equal(t, "income", importErr.Kind)
	})
}

// writeXLSX saves the sheets as an .xlsx workbook. Text cells are stored as
// strings, float64 cells as numbers.
func writeXLSX(t *testing.T, name string, sheets []ingest.Sheet, numbers map[string]float64) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet.Name))
		} else {
			_, err := f.NewSheet(sheet.Name)
			require.NoError(t, err)
		}
		for r, row := range sheet.Cells {
			for c, v := range row {
				if v == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(sheet.Name, cell, v))
			}
		}
	}
	for ref, v := range numbers {
		require.NoError(t, f.SetCellValue(sheets[0].Name, ref, v))
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadBank_XLSX(t *testing.T) {
	sheet := ingest.Sheet{Name: "Movimientos", Cells: [][]string{
		{"Fecha", "Concepto", "Importe", "Saldo"},
		{"02/01/2024", "Recibo 1A", "500,00", "1500"},
		{"03/01/2024", "Limpieza", "", "1455"},
	}}
	path := writeXLSX(t, "MovimientosCuenta.xlsx", []ingest.Sheet{sheet}, map[string]float64{"C3": -45.5})

	ledger, err := newReader(nil).ReadBank(path)
	require.NoError(t, err)
	require.Equal(t, 2, ledger.Len())
	assert.Equal(t, "Recibo 1A", bankAt(t, ledger, 0).Concept)
	assert.True(t, decimal.NewFromInt(500).Equal(bankAt(t, ledger, 0).Amount))
	assert.Equal(t, "Limpieza", bankAt(t, ledger, 1).Concept)
	assert.True(t, decimal.RequireFromString("-45.5").Equal(bankAt(t, ledger, 1).Amount))
}

func TestSplitSettlement_XLSX(t *testing.T) {
	sheets := []ingest.Sheet{propertySheet("Mayor", "Mayor 12"), propertySheet("Resumen", "todas")}
	path := writeXLSX(t, "liquidaciones.xlsx", sheets, nil)

	ledgers, err := newReader(nil).SplitSettlement(path)
	require.NoError(t, err)

	income := ledgers.Get(models.Income)
	require.NotNil(t, income)
	require.Equal(t, 2, income.Len())
	first := income.Rows[0].Entry.(models.IncomeEntry)
	assert.Equal(t, "Ana", first.Tenant)
	assert.Equal(t, "Mayor 12", first.Estate)

	expenses := ledgers.Get(models.Expense)
	require.NotNil(t, expenses)
	require.Equal(t, 1, expenses.Len())
	assert.Equal(t, "Limpieza", expenses.Rows[0].Entry.(models.ExpenseEntry).Concept)
}

func TestSplitSettlement_RejectsNonWorkbook(t *testing.T) {
	_, err := newReader(nil).SplitSettlement(writeFile(t, "s.csv", "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}
