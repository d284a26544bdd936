package matcher

import (
	"fjacquet/conciliation/internal/models"
)

// ConsecutivePass buckets a bank row against two adjacent free expense rows
// of the same property whose cents add up to the bank amount. Invoices paid
// in one transfer are usually entered on consecutive lines.
type ConsecutivePass struct {
	passBase
}

type expensePair struct {
	first int
	sum   int64
}

func (p *ConsecutivePass) Name() string { return "consecutive" }

func (p *ConsecutivePass) Run() (int, error) {
	pairs := p.pairs()
	if len(pairs) == 0 {
		return 0, nil
	}
	matched := 0
	for _, bankPos := range p.freeBank() {
		target := p.cents(models.Bank, bankPos)
		for _, pair := range pairs {
			if pair.sum != target {
				continue
			}
			if !p.isFree(models.Expense, pair.first) || !p.isFree(models.Expense, pair.first+1) {
				continue
			}
			if err := p.assign(p.Name(), models.Expense, bankPos, []int{pair.first, pair.first + 1}); err != nil {
				return matched, err
			}
			matched++
			break
		}
	}
	return matched, nil
}

// pairs lists, in ledger order, the adjacent free expense rows sharing a
// property, with their summed cents.
func (p *ConsecutivePass) pairs() []expensePair {
	l := p.store.Ledger(models.Expense)
	free := l.Free()
	var out []expensePair
	for i := 0; i+1 < len(free); i++ {
		a, b := free[i], free[i+1]
		if b-a != 1 {
			continue
		}
		if l.Rows[a].Entry.Property() != l.Rows[b].Entry.Property() {
			continue
		}
		out = append(out, expensePair{first: a, sum: l.Rows[a].Cents + l.Rows[b].Cents})
	}
	return out
}
