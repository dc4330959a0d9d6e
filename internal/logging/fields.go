package logging

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldRunID     = "run_id"
	FieldRecordID  = "record_id"
	FieldMonth     = "month"
	FieldDirection = "direction"
	FieldAmount    = "amount_cents"
	FieldState     = "state"
	FieldCount     = "count"
	FieldPath      = "path"
)

// Components
const (
	ComponentCLI     = "cli"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
)
