// Package services provides the business logic layer between handlers
// and the analytics engine. Services validate requests, assemble data
// and orchestrate the forecast pipeline.
package services

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Error codes returned by the analytics services.
const (
	CodeInvalidHorizon    = "INVALID_HORIZON"
	CodeUnsupportedTarget = "UNSUPPORTED_TARGET"
	CodeInsufficientData  = "INSUFFICIENT_DATA"
	CodeInvalidLookback   = "INVALID_LOOKBACK"
	CodeGroupNotFound     = "GROUP_NOT_FOUND"
	CodeQueryFailed       = "QUERY_FAILED"
)
