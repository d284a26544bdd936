package audit

import (
	"fmt"

	"fjacquet/conciliation/internal/models"
)

// Link is one row of a cross-reference table joining bank rows with the
// counterpart rows of the same bucket. A side set to -1 is blank because it
// already appeared earlier in the same bucket.
type Link struct {
	Bucket   int
	BankRow  int
	OtherRow int
}

// CrossReference joins the matched bank rows with the matched rows of the
// counterpart kind on bucket id. Within a bucket only the first occurrence
// of a repeated side is kept so pivot sums do not double count.
func (a *Auditor) CrossReference(kind models.Kind) ([]Link, error) {
	if kind != models.Expense && kind != models.Income {
		return nil, fmt.Errorf("cross reference needs a counterpart kind, got %s", kind)
	}
	report, err := a.CheckBuckets()
	if err != nil {
		return nil, err
	}
	pair := report.Expenses
	if kind == models.Income {
		pair = report.Income
	}
	return join(a.store.Ledger(models.Bank), a.store.Ledger(kind), pair), nil
}

func join(bank, other *models.Ledger, pair Pair) []Link {
	byBucket := make(map[int][]int)
	for _, pos := range pair.OtherMatched {
		id := other.Rows[pos].Bucket.ID
		byBucket[id] = append(byBucket[id], pos)
	}

	var out []Link
	first := make(map[int]Link)
	for _, bankPos := range pair.BankMatched {
		id := bank.Rows[bankPos].Bucket.ID
		for _, otherPos := range byBucket[id] {
			link := Link{Bucket: id, BankRow: bankPos, OtherRow: otherPos}
			head, seen := first[id]
			if !seen {
				first[id] = link
			} else if link.BankRow == head.BankRow {
				link.BankRow = -1
			} else if link.OtherRow == head.OtherRow {
				link.OtherRow = -1
			}
			out = append(out, link)
		}
	}
	return out
}
