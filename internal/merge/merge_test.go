package merge

import (
	"testing"

	"fjacquet/conciliation/internal/bucket"
	"fjacquet/conciliation/internal/ledger"
	"fjacquet/conciliation/internal/logging"
	"fjacquet/conciliation/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var (
	bankA = models.BankEntry{Concept: "RECIBO AGUA", Amount: d("-30")}
	bankB = models.BankEntry{Concept: "RECIBO LUZ", Amount: d("-70")}
	bankC = models.BankEntry{Concept: "COMISION", Amount: d("-2")}
	bankR = models.BankEntry{Concept: "TRANSF RUIZ", Amount: d("500")}
	expA  = models.ExpenseEntry{Concept: "Agua", Payment: d("-30"), Estate: "F1"}
	expB  = models.ExpenseEntry{Concept: "Luz", Payment: d("-70"), Estate: "F1"}
	incR  = models.IncomeEntry{Unit: "1A", Tenant: "Ruiz", Paid: d("500"), Estate: "F1"}
)

// row is an entry with its saved bucket, -1 for none.
type row struct {
	entry  models.Entry
	bucket int
}

func savedLedger(kind models.Kind, rows ...row) *models.Ledger {
	l := &models.Ledger{Kind: kind, HasBuckets: true}
	for _, r := range rows {
		nr := models.NewRow(r.entry)
		if r.bucket >= 0 {
			nr.Bucket = models.BucketOf(r.bucket)
		}
		l.Rows = append(l.Rows, nr)
	}
	return l
}

func restore(t *testing.T, b, e, i *models.Ledger) (*ledger.Store, *Engine) {
	t.Helper()
	s := ledger.NewStore(models.DefaultSchema(), nil)
	require.NoError(t, s.SetLedgers(models.Ledgers{b, e, i}, true))
	return s, NewEngine(s, bucket.NewEngine(s, nil), nil)
}

func buckets(l *models.Ledger) []models.Bucket {
	out := make([]models.Bucket, len(l.Rows))
	for i, r := range l.Rows {
		out[i] = r.Bucket
	}
	return out
}

func TestUpdateKeepsSurvivingBuckets(t *testing.T) {
	s, m := restore(t,
		savedLedger(models.Bank, row{bankA, 5}, row{bankB, 6}, row{bankC, -1}),
		savedLedger(models.Expense, row{expA, 5}, row{expB, 6}),
		savedLedger(models.Income),
	)

	res, err := m.Update(models.Ledgers{models.Bank: models.NewLedger(models.Bank, bankA, bankC)})
	require.NoError(t, err)

	assert.Equal(t, []int{5}, res.Kept)
	assert.Equal(t, []int{6}, res.Dropped)
	assert.Equal(t, []models.Bucket{models.BucketOf(5), models.NoBucket}, buckets(s.Ledger(models.Bank)))
	assert.Equal(t, []models.Bucket{models.BucketOf(5), models.NoBucket}, buckets(s.Ledger(models.Expense)))
	assert.Equal(t, 6, s.NextBucket())
}

func TestUpdateFollowsMovedRows(t *testing.T) {
	s, m := restore(t,
		savedLedger(models.Bank, row{bankA, 0}, row{bankR, 1}),
		savedLedger(models.Expense, row{expA, 0}),
		savedLedger(models.Income, row{incR, 1}),
	)

	res, err := m.Update(models.Ledgers{
		models.Bank:   models.NewLedger(models.Bank, bankC, bankR, bankA),
		models.Income: models.NewLedger(models.Income, models.IncomeEntry{Unit: "2B", Paid: d("400")}, incR),
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{0, 1}, res.Kept)
	assert.Empty(t, res.Dropped)
	assert.Equal(t, []int{2}, s.Ledger(models.Bank).InBucket(0))
	assert.Equal(t, []int{1}, s.Ledger(models.Bank).InBucket(1))
	assert.Equal(t, []int{1}, s.Ledger(models.Income).InBucket(1))
	assert.Equal(t, []int{0}, s.Ledger(models.Expense).InBucket(0))
}

func TestUpdateDropsChangedCounterpart(t *testing.T) {
	s, m := restore(t,
		savedLedger(models.Bank, row{bankA, 0}, row{bankB, 1}),
		savedLedger(models.Expense, row{expA, 0}, row{expB, 1}),
		savedLedger(models.Income),
	)
	changed := expB
	changed.Payment = d("-71")

	res, err := m.Update(models.Ledgers{models.Expense: models.NewLedger(models.Expense, expA, changed)})
	require.NoError(t, err)

	assert.Equal(t, []int{0}, res.Kept)
	assert.Equal(t, []int{1}, res.Dropped)
	assert.False(t, s.Ledger(models.Bank).Rows[1].Bucket.Set)
	assert.False(t, s.Ledger(models.Expense).Rows[1].Bucket.Set)
}

func TestUpdateDropsIdenticalRows(t *testing.T) {
	s, m := restore(t,
		savedLedger(models.Bank, row{bankA, 0}),
		savedLedger(models.Expense, row{expA, 0}, row{expA, -1}),
		savedLedger(models.Income),
	)

	res, err := m.Update(models.Ledgers{models.Expense: models.NewLedger(models.Expense, expA, expA)})
	require.NoError(t, err)

	assert.Empty(t, res.Kept)
	assert.Equal(t, []int{0}, res.Dropped)
	assert.Empty(t, s.Ledger(models.Bank).BucketSet())
}

func TestUpdateDropsSharedRows(t *testing.T) {
	// Two buckets hold identical expense rows; only one survives in the new
	// data so neither bucket can be reattached safely.
	other := models.BankEntry{Concept: "RECIBO AGUA 2", Amount: d("-30")}
	s, m := restore(t,
		savedLedger(models.Bank, row{bankA, 0}, row{other, 1}),
		savedLedger(models.Expense, row{expA, 0}, row{expA, 1}),
		savedLedger(models.Income),
	)

	res, err := m.Update(models.Ledgers{models.Expense: models.NewLedger(models.Expense, expA)})
	require.NoError(t, err)

	assert.Empty(t, res.Kept)
	assert.Equal(t, []int{0, 1}, res.Dropped)
	assert.Empty(t, s.Ledger(models.Expense).BucketSet())
}

func TestUpdateIgnoresIncomingBuckets(t *testing.T) {
	s, m := restore(t,
		savedLedger(models.Bank, row{bankA, -1}),
		savedLedger(models.Expense, row{expA, -1}),
		savedLedger(models.Income),
	)

	res, err := m.Update(models.Ledgers{models.Bank: savedLedger(models.Bank, row{bankA, 9})})
	require.NoError(t, err)
	assert.Empty(t, res.Kept)
	assert.Empty(t, s.Ledger(models.Bank).BucketSet())
}

func TestUpdateInvalidInputLeavesState(t *testing.T) {
	s, m := restore(t,
		savedLedger(models.Bank, row{bankA, 0}),
		savedLedger(models.Expense, row{expA, 0}),
		savedLedger(models.Income),
	)
	before := s.Backup()

	_, err := m.Update(models.Ledgers{models.Bank: models.NewLedger(models.Bank, expA)})
	assert.Error(t, err)
	assert.Equal(t, before, s.Backup())
}

func TestUpdateLogsDroppedBuckets(t *testing.T) {
	s, _ := restore(t,
		savedLedger(models.Bank, row{bankA, 0}),
		savedLedger(models.Expense, row{expA, 0}),
		savedLedger(models.Income),
	)
	logger := logging.NewMockLogger()
	m := NewEngine(s, bucket.NewEngine(s, nil), logger)

	_, err := m.Update(models.Ledgers{models.Bank: models.NewLedger(models.Bank, bankC)})
	require.NoError(t, err)

	warns := logger.GetEntriesByLevel("WARN")
	require.Len(t, warns, 1)
	v, ok := warns[0].FieldValue(logging.FieldBucket)
	assert.True(t, ok)
	assert.Equal(t, 0, v)
}
