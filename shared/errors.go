package shared

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrorCategory represents different types of errors that can occur
type ErrorCategory string

const (
	ErrorCategoryConfiguration ErrorCategory = "configuration"
	ErrorCategoryNetwork       ErrorCategory = "network"
	ErrorCategoryDatabase      ErrorCategory = "database"
	ErrorCategoryValidation    ErrorCategory = "validation"
	ErrorCategoryProcessing    ErrorCategory = "processing"
	ErrorCategoryUpstream      ErrorCategory = "upstream"
	ErrorCategoryTimeout       ErrorCategory = "timeout"
)

// ServiceError represents a standardized error with additional context
type ServiceError struct {
	Category    ErrorCategory `json:"category"`
	Code        string        `json:"code"`
	Message     string        `json:"message"`
	Timestamp   time.Time     `json:"timestamp"`
	ServiceName string        `json:"service_name"`
	Operation   string        `json:"operation"`
	Retryable   bool          `json:"retryable"`
	Cause       error         `json:"-"` // Original error, not serialized
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// NewServiceError creates a new service error
func NewServiceError(category ErrorCategory, code, message, serviceName, operation string, retryable bool, cause error) *ServiceError {
	return &ServiceError{
		Category:    category,
		Code:        code,
		Message:     message,
		Timestamp:   time.Now(),
		ServiceName: serviceName,
		Operation:   operation,
		Retryable:   retryable,
		Cause:       cause,
	}
}

// NewUpstreamError wraps a failed upstream registry call. Upstream failures
// propagate to the caller; the fetch cache never stores them.
func NewUpstreamError(serviceName, operation, message string, cause error) *ServiceError {
	return NewServiceError(ErrorCategoryUpstream, "UPSTREAM_FETCH_FAILED", message, serviceName, operation, true, cause)
}

// NewDatabaseError wraps a cache-store failure.
func NewDatabaseError(serviceName, operation, message string, cause error) *ServiceError {
	return NewServiceError(ErrorCategoryDatabase, "DATABASE_ERROR", message, serviceName, operation, true, cause)
}

// NewValidationError wraps a rejected caller input.
func NewValidationError(serviceName, operation, message string) *ServiceError {
	return NewServiceError(ErrorCategoryValidation, "INVALID_INPUT", message, serviceName, operation, false, nil)
}

// NewProcessingError wraps an internal invariant failure, such as a
// determinism violation. Not expected in production.
func NewProcessingError(serviceName, operation, message string, cause error) *ServiceError {
	return NewServiceError(ErrorCategoryProcessing, "PROCESSING_ERROR", message, serviceName, operation, false, cause)
}

// IsRetryable returns whether the error is retryable
func (e *ServiceError) IsRetryable() bool {
	return e.Retryable
}

// LogError logs the error with structured fields
func (e *ServiceError) LogError() {
	logrus.WithFields(logrus.Fields{
		"error_category":   e.Category,
		"error_code":       e.Code,
		"error_message":    e.Message,
		"service_name":     e.ServiceName,
		"operation":        e.Operation,
		"retryable":        e.Retryable,
		"underlying_error": e.Cause,
	}).Error("Service error occurred")
}
