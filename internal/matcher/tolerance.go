package matcher

import (
	"fjacquet/conciliation/internal/models"
)

// TolerancePass buckets a bank row against the single free expense row
// whose cents lie within the tolerance, inclusive.
type TolerancePass struct {
	passBase
	tolerance int64
}

func (p *TolerancePass) Name() string { return "tolerance" }

func (p *TolerancePass) Run() (int, error) {
	matched := 0
	for _, bankPos := range p.freeBank() {
		target := p.cents(models.Bank, bankPos)
		found := p.candidates(models.Expense, func(c int64) bool {
			return c >= target-p.tolerance && c <= target+p.tolerance
		})
		if len(found) != 1 {
			continue
		}
		if err := p.assign(p.Name(), models.Expense, bankPos, found); err != nil {
			return matched, err
		}
		matched++
	}
	return matched, nil
}
