package log

// Field names shared by every component.
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQuery         = "query"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldTransactionID = "transaction_id"
	FieldPersonID      = "person_id"
	FieldCategoryID    = "category_id"
	FieldType          = "transaction_type"
	FieldAmount        = "amount"
	FieldSkip          = "skip"
	FieldTake          = "take"
	FieldRows          = "rows"
)

// Components
const (
	ComponentApp         = "app"
	ComponentHTTP        = "http"
	ComponentTransaction = "transaction"
	ComponentPerson      = "person"
	ComponentCategory    = "category"
	ComponentTotals      = "totals"
	ComponentAMQP        = "amqp"
	ComponentSecurity    = "security"
	ComponentTrace       = "trace"
	ComponentBackend     = "backend"
	ComponentSeed        = "seed"
	ComponentCLI         = "cli"
)

// Operations
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpTotals   = "totals"
	OpPublish  = "publish"
	OpValidate = "validate"
	OpSeed     = "seed"
	OpMigrate  = "migrate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// Args is an ordered list of slog key/value pairs.
type Args []any

func (a Args) Add(key string, value any) Args {
	return append(a, key, value)
}

// Err adds the error text, skipping nil errors.
func (a Args) Err(err error) Args {
	if err == nil {
		return a
	}
	return append(a, FieldError, err.Error())
}

func (a Args) Request(requestID, clientIP string) Args {
	return append(a, FieldRequestID, requestID, FieldClientIP, clientIP)
}

func (a Args) Transaction(id, personID, categoryID int64, txType, amount string) Args {
	return append(a,
		FieldTransactionID, id,
		FieldPersonID, personID,
		FieldCategoryID, categoryID,
		FieldType, txType,
		FieldAmount, amount)
}
