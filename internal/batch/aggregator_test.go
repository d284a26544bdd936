package batch

import (
	"errors"
	"testing"

	"fjacquet/conciliation/internal/logging"
	"fjacquet/conciliation/internal/models"
	"fjacquet/conciliation/internal/reconerror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bank(rows ...string) *models.Ledger {
	var entries []models.Entry
	for i := 0; i+1 < len(rows); i += 2 {
		entries = append(entries, models.BankEntry{Concept: rows[i], Amount: decimal.RequireFromString(rows[i+1])})
	}
	return models.NewLedger(models.Bank, entries...)
}

func reader(statements map[string]*models.Ledger) ReadFunc {
	return func(path string) (*models.Ledger, error) {
		l, ok := statements[path]
		if !ok {
			return nil, &reconerror.ImportIncompleteError{FilePath: path, Kind: "bank", Reason: "no header row found"}
		}
		return l, nil
	}
}

func TestOrder(t *testing.T) {
	a := NewAggregator(logging.NewMockLogger())

	camt := []string{
		"in/CAMT.053_5429_2024-03-01_2024-03-31_1.xml",
		"in/CAMT.053_5429_2024-01-01_2024-01-31_1.xml",
		"in/CAMT.053_5429_2024-02-01_2024-02-29_1.xml",
	}
	assert.Equal(t, []string{camt[1], camt[2], camt[0]}, a.Order(camt))

	mixed := []string{camt[0], "in/enero.csv", camt[1]}
	assert.Equal(t, mixed, a.Order(mixed))
}

func TestDateRange(t *testing.T) {
	a := NewAggregator(nil)
	dr := a.extractDateRangeFromFilename("CAMT.053_5429_2024-01-01_2024-01-31_1.xml")
	assert.Equal(t, "2024-01-01_2024-01-31", dr.String())

	dr = a.extractDateRangeFromFilename("CAMT.053_5429_2024-01-01_2024-01-31.xml")
	assert.Equal(t, "2024-01-01_2024-01-31", dr.String())

	assert.Equal(t, "", a.extractDateRangeFromFilename("camt.053_5429_enero.xml").String())
	assert.Equal(t, "", a.extractDateRangeFromFilename("banco.csv").String())
}

func TestAggregate(t *testing.T) {
	logger := logging.NewMockLogger()
	a := NewAggregator(logger)
	read := reader(map[string]*models.Ledger{
		"enero.csv":   bank("Limpieza", "-45", "Recibo Ana", "500"),
		"febrero.csv": bank("Comision", "-3"),
	})

	l, err := a.Aggregate([]string{"enero.csv", "febrero.csv"}, read)
	require.NoError(t, err)
	require.Equal(t, 3, l.Len())
	assert.Equal(t, models.Bank, l.Kind)
	assert.Equal(t, "Limpieza", l.Rows[0].Entry.Description())
	assert.Equal(t, "Comision", l.Rows[2].Entry.Description())
	assert.Empty(t, logger.GetEntriesByLevel("WARN"))
	assert.True(t, logger.HasEntry("INFO", "Aggregated bank statements"))
}

func TestAggregate_Duplicates(t *testing.T) {
	logger := logging.NewMockLogger()
	a := NewAggregator(logger)
	read := reader(map[string]*models.Ledger{
		"enero.csv":   bank("Comision", "-3", "Comision", "-3"),
		"febrero.csv": bank("Comision", "-3", "Recibo Ana", "500"),
	})

	l, err := a.Aggregate([]string{"enero.csv", "febrero.csv"}, read)
	require.NoError(t, err)
	assert.Equal(t, 4, l.Len(), "duplicates are kept")

	warnings := logger.GetEntriesByLevel("WARN")
	require.Len(t, warnings, 2)
	assert.Equal(t, "Potential duplicate movement", warnings[0].Message)
	first, ok := warnings[0].FieldValue("first_seen_in")
	require.True(t, ok)
	assert.Equal(t, "enero.csv", first)
	count, _ := warnings[1].FieldValue(logging.FieldCount)
	assert.Equal(t, 1, count)
}

func TestAggregate_Errors(t *testing.T) {
	a := NewAggregator(nil)

	_, err := a.Aggregate(nil, reader(nil))
	assert.Error(t, err)

	_, err = a.Aggregate([]string{"missing.csv"}, reader(nil))
	require.Error(t, err)
	var incomplete *reconerror.ImportIncompleteError
	assert.True(t, errors.As(err, &incomplete))

	read := reader(map[string]*models.Ledger{
		"gastos.csv": models.NewLedger(models.Expense, models.ExpenseEntry{Concept: "x", Payment: decimal.NewFromInt(1)}),
	})
	_, err = a.Aggregate([]string{"gastos.csv"}, read)
	assert.Error(t, err)
}
