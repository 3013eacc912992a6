package errors

// ErrorCode identifies an application error condition
type ErrorCode int32

const (
	ErrorCode_UNKNOWN ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_NOT_FOUND
	ErrorCode_ALREADY_EXISTS

	// Loading errors
	ErrorCode_BATCH_INVALID
	ErrorCode_BATCH_ALREADY_LOADED
	ErrorCode_BATCH_PARTIAL
	ErrorCode_BATCH_FAILED
	ErrorCode_CONTRACT_VIOLATION

	// Database errors
	ErrorCode_DB_CONNECTION_FAILED
	ErrorCode_DB_QUERY_FAILED
	ErrorCode_DB_TRANSACTION_FAILED
	ErrorCode_DB_CONSTRAINT_VIOLATION

	// Document store errors
	ErrorCode_DOC_CONNECTION_FAILED
	ErrorCode_DOC_WRITE_FAILED

	// Integration errors
	ErrorCode_INTEGRATION_STORAGE_FAILED
	ErrorCode_INTEGRATION_CACHE_FAILED

	// Custom errors
	ErrorCode_INVALID_PAYLOAD
)

// ErrorCode_HTTP_OK marks successful responses in the response envelope
const ErrorCode_HTTP_OK ErrorCode = 200

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNKNOWN:                    "UNKNOWN",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:             "ALREADY_EXISTS",
	ErrorCode_BATCH_INVALID:              "BATCH_INVALID",
	ErrorCode_BATCH_ALREADY_LOADED:       "BATCH_ALREADY_LOADED",
	ErrorCode_BATCH_PARTIAL:              "BATCH_PARTIAL",
	ErrorCode_BATCH_FAILED:               "BATCH_FAILED",
	ErrorCode_CONTRACT_VIOLATION:         "CONTRACT_VIOLATION",
	ErrorCode_DB_CONNECTION_FAILED:       "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
	ErrorCode_DB_TRANSACTION_FAILED:      "DB_TRANSACTION_FAILED",
	ErrorCode_DB_CONSTRAINT_VIOLATION:    "DB_CONSTRAINT_VIOLATION",
	ErrorCode_DOC_CONNECTION_FAILED:      "DOC_CONNECTION_FAILED",
	ErrorCode_DOC_WRITE_FAILED:           "DOC_WRITE_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_HTTP_OK:                    "HTTP_OK",
}

// String returns the code name
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
