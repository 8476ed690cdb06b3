// Package services provides the business logic layer between handlers and
// the storage/analytics packages.
package services

// Error codes carried on ServiceError. Handlers map these onto HTTP status
// codes; clients switch on them.
const (
	CodeUnsupportedMethod = "UNSUPPORTED_METHOD"
	CodeNoValidReadings   = "NO_VALID_READINGS"
	CodeStorageFailed     = "STORAGE_FAILED"
	CodeEncodeFailed      = "ENCODE_FAILED"
	CodePublishFailed     = "PUBLISH_FAILED"
)

// ServiceError is the error type crossing the service boundary. Code is one
// of the constants above, Details carries diagnostic values for the JSON
// error body.
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a ServiceError without details.
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a ServiceError carrying diagnostic
// details.
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}
