package errors

const (
	HttpInternalError       = "internal_error"
	HttpInvalidJsonError    = "invalid_json"
	HttpInvalidPlanError    = "invalid_plan_request"
	HttpModelNotFoundError  = "model_not_found"
	HttpLedgerDisabledError = "ledger_disabled"
)

// ErrorResponse is the error response body for plan API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
