package logging

// Shared attribute keys. Using the constants keeps log lines greppable
// across components.
const (
	FieldComponent = "component"
	FieldCategory  = "category"
	FieldItem      = "item"
	FieldRunID     = "run_id"
	FieldCount     = "count"
	FieldReason    = "reason"
	FieldDuration  = "duration"
)
