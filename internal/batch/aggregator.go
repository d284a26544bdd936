// Package batch combines the bank statements of consecutive periods into a
// single bank ledger.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fjacquet/conciliation/internal/logging"
	"fjacquet/conciliation/internal/models"
)

// DateRange is the statement period encoded in a file name.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// ReadFunc reads one statement file into a bank ledger.
type ReadFunc func(path string) (*models.Ledger, error)

// Aggregator concatenates statements.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Aggregator{logger: logger}
}

// Order returns files in chronological order when every file name carries a
// statement period, and in the given order otherwise.
func (a *Aggregator) Order(files []string) []string {
	ordered := append([]string(nil), files...)
	ranges := make(map[string]DateRange, len(files))
	for _, f := range files {
		dr := a.extractDateRangeFromFilename(f)
		if dr.Start.IsZero() {
			a.logger.Debug("Statement has no period in its name, keeping given order",
				logging.F(logging.FieldFile, filepath.Base(f)))
			return ordered
		}
		ranges[f] = dr
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ranges[ordered[i]].Start.Before(ranges[ordered[j]].Start)
	})
	return ordered
}

// extractDateRangeFromFilename reads the period of
// CAMT.053_{account}_{start}_{end}_{sequence}.{ext} names. Other names give a
// zero DateRange.
func (a *Aggregator) extractDateRangeFromFilename(filename string) DateRange {
	baseName := filepath.Base(filename)
	if !strings.HasPrefix(strings.ToUpper(baseName), "CAMT.053_") {
		return DateRange{}
	}
	parts := strings.Split(baseName, "_")
	if len(parts) < 4 {
		return DateRange{}
	}
	start, err1 := time.Parse("2006-01-02", parts[2])
	end, err2 := time.Parse("2006-01-02", strings.TrimSuffix(parts[3], filepath.Ext(parts[3])))
	if err1 != nil || err2 != nil {
		return DateRange{}
	}
	return DateRange{Start: start, End: end}
}

// Aggregate reads every file and appends its rows, in order, to one bank
// ledger. Any unreadable statement fails the whole batch. Rows that appear
// identically in two different statements are reported as potential
// duplicates of an overlapping export but kept.
func (a *Aggregator) Aggregate(files []string, read ReadFunc) (*models.Ledger, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no bank statements given")
	}

	combined := &models.Ledger{Kind: models.Bank}
	seen := make(map[string]string)
	duplicates := 0
	for _, file := range files {
		l, err := read(file)
		if err != nil {
			return nil, fmt.Errorf("error reading statement %s: %w", file, err)
		}
		if l.Kind != models.Bank {
			return nil, fmt.Errorf("statement %s produced a %s ledger", file, l.Kind)
		}

		a.logger.Debug("Loaded statement",
			logging.F(logging.FieldFile, filepath.Base(file)),
			logging.F(logging.FieldCount, l.Len()))

		local := make(map[string]struct{}, l.Len())
		for _, r := range l.Rows {
			key := strings.Join(r.Entry.Values(), "\x1f")
			if first, ok := seen[key]; ok && first != file {
				duplicates++
				a.logger.Warn("Potential duplicate movement",
					logging.F(logging.FieldFile, filepath.Base(file)),
					logging.F("first_seen_in", filepath.Base(first)),
					logging.F("description", r.Entry.Description()),
					logging.F("amount", r.Entry.Cash().String()))
			}
			local[key] = struct{}{}
			combined.Rows = append(combined.Rows, r)
		}
		for key := range local {
			if _, ok := seen[key]; !ok {
				seen[key] = file
			}
		}
	}

	if duplicates > 0 {
		a.logger.Warn("Found potential duplicate movements", logging.F(logging.FieldCount, duplicates))
	}
	a.logger.Info("Aggregated bank statements",
		logging.F("statements", len(files)),
		logging.F(logging.FieldCount, combined.Len()))
	return combined, nil
}
