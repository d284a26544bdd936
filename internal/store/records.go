package store

import (
	"fjacquet/conciliation/internal/models"
)

// Sheet records. Amounts travel as text and are parsed through the schema
// so blanks and locale formats are handled in one place.

type bankRecord struct {
	Concept string        `csv:"Concepto"`
	Amount  string        `csv:"Importe"`
	Bucket  models.Bucket `csv:"Bucket"`
}

type expenseRecord struct {
	Concept string        `csv:"CONCEPTO"`
	Payment string        `csv:"Pagos"`
	Refund  string        `csv:"Abonos"`
	Estate  string        `csv:"finca"`
	Bucket  models.Bucket `csv:"Bucket"`
}

type incomeRecord struct {
	Unit    string        `csv:"Piso/Local"`
	Tenant  string        `csv:"Inquilino"`
	Date    string        `csv:"Fecha"`
	Paid    string        `csv:"Cobrado"`
	Pending string        `csv:"Pendiente"`
	Estate  string        `csv:"finca"`
	Bucket  models.Bucket `csv:"Bucket"`
}

// bankExpenseLink is a row of the bank/expenses cross-reference sheet.
type bankExpenseLink struct {
	Concept string `csv:"Concepto"`
	Amount  string `csv:"Importe"`
	Bucket  int    `csv:"Bucket"`
	Expense string `csv:"CONCEPTO"`
	Payment string `csv:"Pagos"`
	Refund  string `csv:"Abonos"`
	Estate  string `csv:"finca"`
}

// bankIncomeLink is a row of the bank/income cross-reference sheet.
type bankIncomeLink struct {
	Concept string `csv:"Concepto"`
	Amount  string `csv:"Importe"`
	Bucket  int    `csv:"Bucket"`
	Unit    string `csv:"Piso/Local"`
	Tenant  string `csv:"Inquilino"`
	Date    string `csv:"Fecha"`
	Paid    string `csv:"Cobrado"`
	Pending string `csv:"Pendiente"`
	Estate  string `csv:"finca"`
}

func (r bankRecord) cells() map[string]string {
	return map[string]string{models.ColConcept: r.Concept, models.ColAmount: r.Amount}
}

func (r expenseRecord) cells() map[string]string {
	return map[string]string{
		models.ColExpense: r.Concept,
		models.ColPayment: r.Payment,
		models.ColRefund:  r.Refund,
		models.ColEstate:  r.Estate,
	}
}

func (r incomeRecord) cells() map[string]string {
	return map[string]string{
		models.ColUnit:    r.Unit,
		models.ColTenant:  r.Tenant,
		models.ColDate:    r.Date,
		models.ColPaid:    r.Paid,
		models.ColPending: r.Pending,
		models.ColEstate:  r.Estate,
	}
}

func toBankRecords(l *models.Ledger) []bankRecord {
	out := make([]bankRecord, 0, l.Len())
	for _, r := range l.Rows {
		e := r.Entry.(models.BankEntry)
		out = append(out, bankRecord{Concept: e.Concept, Amount: e.Amount.String(), Bucket: r.Bucket})
	}
	return out
}

func toExpenseRecords(l *models.Ledger) []expenseRecord {
	out := make([]expenseRecord, 0, l.Len())
	for _, r := range l.Rows {
		e := r.Entry.(models.ExpenseEntry)
		out = append(out, expenseRecord{
			Concept: e.Concept,
			Payment: e.Payment.String(),
			Refund:  e.Refund.String(),
			Estate:  e.Estate,
			Bucket:  r.Bucket,
		})
	}
	return out
}

func toIncomeRecords(l *models.Ledger) []incomeRecord {
	out := make([]incomeRecord, 0, l.Len())
	for _, r := range l.Rows {
		e := r.Entry.(models.IncomeEntry)
		out = append(out, incomeRecord{
			Unit:    e.Unit,
			Tenant:  e.Tenant,
			Date:    e.Date,
			Paid:    e.Paid.String(),
			Pending: e.Pending.String(),
			Estate:  e.Estate,
			Bucket:  r.Bucket,
		})
	}
	return out
}
