package logging

// Field names shared by every component so that reconciliation logs can be
// filtered by ledger, bucket or matching pass.
const (
	FieldKind       = "ledger"
	FieldBucket     = "bucket"
	FieldBankRows   = "bank_rows"
	FieldOtherRows  = "other_rows"
	FieldPass       = "pass"
	FieldCount      = "count"
	FieldOperation  = "operation"
	FieldReason     = "reason"
	FieldFile       = "file_path"
	FieldDirectory  = "directory"
	FieldSheet      = "sheet"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldDelimiter  = "delimiter"
)
