package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldSuccess   = "success"
	FieldError     = "error"
	FieldOwnerID   = "owner_id"
	FieldMode      = "mode"
	FieldDryRun    = "dry_run"
	FieldEntity    = "entity"
	FieldCount     = "count"
	FieldYear      = "year"
	FieldMonth     = "month"
	FieldFile      = "file"
	FieldBytes     = "bytes"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentSnapshot = "snapshot"
	ComponentImporter = "importer"
	ComponentExporter = "exporter"
	ComponentStore    = "store"
	ComponentAMQP     = "amqp"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names
const (
	OpExport   = "export"
	OpImport   = "import"
	OpValidate = "validate"
	OpDelete   = "delete"
	OpPublish  = "publish"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
