package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldSuccess     = "success"
	FieldAccount     = "account"
	FieldAccountID   = "account_id"
	FieldCategory    = "category"
	FieldTransaction = "transaction_id"
	FieldAmount      = "amount"
	FieldCurrency    = "currency"
	FieldRow         = "row"
	FieldRowCount    = "row_count"
	FieldFile        = "file"
	FieldFormat      = "format"
	FieldCycle       = "billing_cycle"
	FieldDueDate     = "next_due_date"
	FieldEventKind   = "event_kind"
	FieldEntityID    = "entity_id"
	FieldActorID     = "actor_id"
)

// Components defines standard component names.
const (
	ComponentLedger  = "ledger"
	ComponentImport  = "import"
	ComponentExport  = "export"
	ComponentBilling = "billing"
	ComponentReport  = "report"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentSecure  = "secure"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names.
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpImport   = "import"
	OpExport   = "export"
	OpBill     = "bill"
	OpRollover = "rollover"
	OpValidate = "validate"
	OpEncrypt  = "encrypt"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
