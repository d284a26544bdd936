package matcher

import (
	"fjacquet/conciliation/internal/models"
	"fjacquet/conciliation/internal/textutils"
)

// ExactPass buckets bank rows against counterpart rows with identical
// cents, visiting the counterparts in a fixed order. Several expense
// candidates are disambiguated by description similarity; several income
// candidates are left alone since rents repeat across tenants.
type ExactPass struct {
	passBase
	order []models.Kind
}

func (p *ExactPass) Name() string { return "exact" }

func (p *ExactPass) Run() (int, error) {
	matched := 0
	for _, kind := range p.order {
		for _, bankPos := range p.freeBank() {
			if !p.isFree(models.Bank, bankPos) {
				continue
			}
			target := p.cents(models.Bank, bankPos)
			found := p.candidates(kind, func(c int64) bool { return c == target })

			var pick int
			switch {
			case len(found) == 0:
				continue
			case len(found) == 1:
				pick = found[0]
			case kind == models.Income:
				continue
			default:
				pick = found[p.mostSimilar(bankPos, kind, found)]
			}
			if err := p.assign(p.Name(), kind, bankPos, []int{pick}); err != nil {
				return matched, err
			}
			matched++
		}
	}
	return matched, nil
}

func (p *ExactPass) mostSimilar(bankPos int, kind models.Kind, found []int) int {
	l := p.store.Ledger(kind)
	texts := make([]string, len(found))
	for i, pos := range found {
		texts[i] = l.Rows[pos].Entry.Description()
	}
	return textutils.MostSimilar(p.store.Ledger(models.Bank).Rows[bankPos].Entry.Description(), texts)
}
