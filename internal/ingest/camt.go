package ingest

import (
	"fmt"

	"fjacquet/conciliation/internal/currencyutils"
	"fjacquet/conciliation/internal/logging"
	"fjacquet/conciliation/internal/models"
	"fjacquet/conciliation/internal/reconerror"
	"fjacquet/conciliation/internal/xmlutils"

	"gopkg.in/xmlpath.v2"
)

// readCAMT reads the entries of a CAMT.053 statement. Debits become negative
// amounts; the concept is the unstructured remittance text, or the
// additional entry information when there is none.
func (r *Reader) readCAMT(path string) (*models.Ledger, error) {
	root, err := xmlutils.LoadXMLFile(path)
	if err != nil {
		return nil, err
	}
	return r.BankFromCAMT(path, root)
}

// BankFromCAMT builds the bank ledger from a parsed CAMT.053 document.
func (r *Reader) BankFromCAMT(path string, root *xmlpath.Node) (*models.Ledger, error) {
	paths := xmlutils.DefaultCamt053XPaths()
	entries, err := xmlutils.Nodes(root, paths.Entry)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &reconerror.ImportIncompleteError{
			FilePath: path, Kind: models.Bank.String(), Reason: "no statement entries",
		}
	}

	accounts, err := xmlutils.ExtractFromXML(root, paths.Account)
	if err != nil {
		return nil, err
	}
	if len(accounts) > 1 {
		r.logger.Warn("Statement holds several accounts, reading all of them",
			logging.F(logging.FieldInputFile, path),
			logging.F(logging.FieldCount, len(accounts)))
	}

	ledger := &models.Ledger{Kind: models.Bank}
	currencies := make(map[string]struct{})
	for i, node := range entries {
		entry, err := camtEntry(node, paths)
		if err != nil {
			return nil, &reconerror.ImportIncompleteError{
				FilePath: path,
				Kind:     models.Bank.String(),
				Reason:   fmt.Sprintf("entry %d", i+1),
				Err:      err,
			}
		}
		if ccy, _ := xmlutils.Value(node, paths.Currency); ccy != "" {
			currencies[ccy] = struct{}{}
		}
		ledger.Rows = append(ledger.Rows, models.NewRow(entry))
	}
	if len(currencies) > 1 {
		r.logger.Warn("Statement mixes currencies, amounts are read as they are",
			logging.F(logging.FieldInputFile, path),
			logging.F("currencies", len(currencies)))
	}

	r.logger.Debug("CAMT entries extracted",
		logging.F(logging.FieldInputFile, path),
		logging.F("account", xmlutils.GetOrEmpty(accounts, 0)),
		logging.F(logging.FieldCount, ledger.Len()))
	return ledger, nil
}

func camtEntry(node *xmlpath.Node, paths xmlutils.CAMT053) (models.BankEntry, error) {
	raw, err := xmlutils.Value(node, paths.Amount)
	if err != nil {
		return models.BankEntry{}, err
	}
	if models.IsBlank(raw) {
		return models.BankEntry{}, fmt.Errorf("missing amount")
	}
	amount, err := currencyutils.ParseAmount(raw)
	if err != nil {
		return models.BankEntry{}, err
	}

	ind, err := xmlutils.Value(node, paths.CreditDebitInd)
	if err != nil {
		return models.BankEntry{}, err
	}
	if ind == xmlutils.Debit {
		amount = amount.Abs().Neg()
	}

	concept, err := xmlutils.Value(node, paths.Remittance)
	if err != nil {
		return models.BankEntry{}, err
	}
	if concept == "" {
		if concept, err = xmlutils.Value(node, paths.AddEntryInfo); err != nil {
			return models.BankEntry{}, err
		}
	}
	return models.BankEntry{Concept: concept, Amount: amount}, nil
}
