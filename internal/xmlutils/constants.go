package xmlutils

// CAMT053 holds the XPath expressions used to read bank movements out of a
// CAMT.053 statement. Account and Entry are evaluated from the document
// root; the remaining paths are relative to an entry node.
type CAMT053 struct {
	Account        string
	Entry          string
	Amount         string
	Currency       string
	CreditDebitInd string
	BookingDate    string
	ValueDate      string
	Remittance     string
	AddEntryInfo   string
}

// Credit and debit indicators of an entry.
const (
	Credit = "CRDT"
	Debit  = "DBIT"
)

// DefaultCamt053XPaths returns the expressions for a standard ISO 20022 statement.
func DefaultCamt053XPaths() CAMT053 {
	return CAMT053{
		Account:        "//Stmt/Acct/Id/IBAN",
		Entry:          "//Ntry",
		Amount:         "Amt",
		Currency:       "Amt/@Ccy",
		CreditDebitInd: "CdtDbtInd",
		BookingDate:    "BookgDt/Dt",
		ValueDate:      "ValDt/Dt",
		Remittance:     "NtryDtls/TxDtls/RmtInf/Ustrd",
		AddEntryInfo:   "AddtlNtryInf",
	}
}
