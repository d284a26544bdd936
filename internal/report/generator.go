// Package report renders the reconciliation summary for people and tools.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"fjacquet/conciliation/internal/audit"
	"fjacquet/conciliation/internal/currencyutils"
	"fjacquet/conciliation/internal/logging"

	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Line is one summary cell with its rendered amount.
type Line struct {
	Ledger string `json:"ledger" yaml:"ledger"`
	Column string `json:"column" yaml:"column"`
	Cents  int64  `json:"cents" yaml:"cents"`
	Amount string `json:"amount" yaml:"amount"`
}

// Counts reports how many rows fall in each match class.
type Counts struct {
	BankOnly          int `json:"bank_only" yaml:"bank_only"`
	BankVsExpenses    int `json:"bank_vs_expenses" yaml:"bank_vs_expenses"`
	BankVsIncome      int `json:"bank_vs_income" yaml:"bank_vs_income"`
	ExpensesMatched   int `json:"expenses_matched" yaml:"expenses_matched"`
	ExpensesUnmatched int `json:"expenses_unmatched" yaml:"expenses_unmatched"`
	IncomeMatched     int `json:"income_matched" yaml:"income_matched"`
	IncomeUnmatched   int `json:"income_unmatched" yaml:"income_unmatched"`
}

// Document is the rendered form of an audit report.
type Document struct {
	Currency         string `json:"currency" yaml:"currency"`
	Lines            []Line `json:"lines" yaml:"lines"`
	Counts           Counts `json:"counts" yaml:"counts"`
	ExpenseImbalance int64  `json:"expense_imbalance_cents" yaml:"expense_imbalance_cents"`
	IncomeImbalance  int64  `json:"income_imbalance_cents" yaml:"income_imbalance_cents"`
	Balanced         bool   `json:"balanced" yaml:"balanced"`
}

// NewDocument builds the document of an audit report.
func NewDocument(r *audit.Report, currency string) *Document {
	doc := &Document{
		Currency:         currency,
		ExpenseImbalance: r.Summary.ExpenseImbalance(),
		IncomeImbalance:  r.Summary.IncomeImbalance(),
		Balanced:         r.Summary.Balanced(),
		Counts: Counts{
			BankOnly:          len(r.BankOnly),
			BankVsExpenses:    len(r.Expenses.BankMatched),
			BankVsIncome:      len(r.Income.BankMatched),
			ExpensesMatched:   len(r.Expenses.OtherMatched),
			ExpensesUnmatched: len(r.Expenses.OtherUnmatched),
			IncomeMatched:     len(r.Income.OtherMatched),
			IncomeUnmatched:   len(r.Income.OtherUnmatched),
		},
	}
	for _, c := range r.Summary.Cells() {
		doc.Lines = append(doc.Lines, Line{
			Ledger: c.Ledger,
			Column: c.Column,
			Cents:  c.Cents,
			Amount: currencyutils.FormatCents(c.Cents, currency),
		})
	}
	return doc
}

// Generator renders documents.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new instance of Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Generator{logger: logger}
}

// Generate renders doc in the given format (text, json or yaml).
func (g *Generator) Generate(doc *Document, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return g.generateText(doc)
	case FormatJSON:
		return g.generateJSON(doc)
	case FormatYAML, "yml":
		return g.generateYAML(doc)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(doc *Document) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *Generator) generateYAML(doc *Document) ([]byte, error) {
	out, err := yaml.Marshal(doc)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}

// generateText lays the summary out as a ledger by column table followed by
// the imbalance lines.
func (g *Generator) generateText(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)

	columns := []string{"only", "expenses", "income"}
	fmt.Fprintf(w, "ledger\t%s\t\n", strings.Join(columns, "\t"))
	for _, ledger := range []string{"bank", "expenses", "income"} {
		cells := make([]string, len(columns))
		for i, col := range columns {
			for _, l := range doc.Lines {
				if l.Ledger == ledger && l.Column == col {
					cells[i] = l.Amount
				}
			}
		}
		fmt.Fprintf(w, "%s\t%s\t\n", ledger, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	fmt.Fprintf(&buf, "\nexpenses imbalance: %s\n", currencyutils.FormatCents(doc.ExpenseImbalance, doc.Currency))
	fmt.Fprintf(&buf, "income imbalance:   %s\n", currencyutils.FormatCents(doc.IncomeImbalance, doc.Currency))
	if doc.Balanced {
		buf.WriteString("status: balanced\n")
	} else {
		buf.WriteString("status: NOT balanced\n")
	}
	return buf.Bytes(), nil
}
