// Package reconerror defines the error types returned by the reconciliation engine.
package reconerror

import (
	"fmt"
	"strings"
)

// InvalidArgumentError is returned when a caller asks for an operation that
// cannot be performed with the given arguments, e.g. bucketing bank rows
// without any counterpart rows. No state is mutated.
type InvalidArgumentError struct {
	Operation string
	Reason    string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid argument: %s", e.Operation, e.Reason)
}

// IncompleteDataError is returned when an operation needs the three ledgers
// and at least one of them has not been loaded.
type IncompleteDataError struct {
	Operation string
	Missing   []string
}

func (e *IncompleteDataError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("%s: ledgers are incomplete", e.Operation)
	}
	return fmt.Sprintf("%s: ledgers are incomplete, missing %s",
		e.Operation, strings.Join(e.Missing, ", "))
}

// InternalConsistencyError signals corrupted bucket state detected by the
// auditor. It is never expected in correct operation and must not be
// suppressed.
type InternalConsistencyError struct {
	Check  string
	Detail string
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("internal consistency check %q failed: %s", e.Check, e.Detail)
}

// ImportIncompleteError is returned by ingestion when the required sheets,
// blocks or columns could not be located in a source file.
type ImportIncompleteError struct {
	FilePath string
	Kind     string
	Reason   string
	Err      error
}

func (e *ImportIncompleteError) Error() string {
	msg := fmt.Sprintf("import of %s from '%s' is incomplete: %s", e.Kind, e.FilePath, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ImportIncompleteError) Unwrap() error {
	return e.Err
}
