// Package errors defines the categorized errors returned by studio services.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/creative-studio/internal/types"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	// CategoryValidation represents invalid or missing request fields
	CategoryValidation ErrorCategory = "validation"
	// CategoryNotFound represents missing resources
	CategoryNotFound ErrorCategory = "not_found"
	// CategoryConflict represents a request clashing with in-flight work
	CategoryConflict ErrorCategory = "conflict"
	// CategoryRateLimit represents rate limit errors
	CategoryRateLimit ErrorCategory = "rate_limit"
	// CategoryProvider represents generative content service errors
	CategoryProvider ErrorCategory = "provider"
	// CategoryDatabase represents database errors
	CategoryDatabase ErrorCategory = "database"
	// CategoryCache represents Redis errors
	CategoryCache ErrorCategory = "cache"
	// CategorySystem represents everything else (5xx)
	CategorySystem ErrorCategory = "system"
)

// Error codes
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeUnknownTool         = "UNKNOWN_TOOL"
	CodePanelBusy           = "PANEL_BUSY"
	CodeGenerationFailed    = "GENERATION_FAILED"
	CodeInvalidMarkup       = "INVALID_MARKUP"
	CodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	CodeVideoJobNotFound    = "VIDEO_JOB_NOT_FOUND"
	CodeVideoNotReady       = "VIDEO_NOT_READY"
	CodeAnalyticsDisabled   = "ANALYTICS_DISABLED"
	CodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	CodeDatabaseError       = "DATABASE_ERROR"
	CodeCacheError          = "CACHE_ERROR"
	CodeInternalError       = "INTERNAL_ERROR"
)

// CategorizedError represents an error with category and HTTP status code
type CategorizedError struct {
	Category   ErrorCategory
	StatusCode int
	Code       string
	Message    string
	Details    map[string]interface{}
	Cause      error
}

// Error implements the error interface
func (e *CategorizedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *CategorizedError) Unwrap() error {
	return e.Cause
}

// ToServiceError converts to the wire representation
func (e *CategorizedError) ToServiceError() *types.ServiceError {
	return &types.ServiceError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

// NewInvalidInputError reports a missing or malformed field
func NewInvalidInputError(field, reason string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryValidation,
		StatusCode: http.StatusBadRequest,
		Code:       CodeInvalidInput,
		Message:    fmt.Sprintf("invalid field '%s': %s", field, reason),
		Details: map[string]interface{}{
			"field":  field,
			"reason": reason,
		},
	}
}

// NewRequiredFieldError reports that field must be non-empty
func NewRequiredFieldError(field string) *CategorizedError {
	return NewInvalidInputError(field, "is required")
}

// NewUserNotFoundError creates a user not found error
func NewUserNotFoundError(id string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryNotFound,
		StatusCode: http.StatusNotFound,
		Code:       CodeUserNotFound,
		Message:    fmt.Sprintf("user not found: %s", id),
		Details:    map[string]interface{}{"userId": id},
	}
}

// NewUnknownToolError creates an unknown tool error
func NewUnknownToolError(tool string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryValidation,
		StatusCode: http.StatusBadRequest,
		Code:       CodeUnknownTool,
		Message:    fmt.Sprintf("unknown tool: %s", tool),
		Details:    map[string]interface{}{"tool": tool},
	}
}

// NewPanelBusyError reports that a request for the panel is still in flight
func NewPanelBusyError(tool types.ToolID) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryConflict,
		StatusCode: http.StatusConflict,
		Code:       CodePanelBusy,
		Message:    fmt.Sprintf("a request for %s is already in progress", tool),
		Details:    map[string]interface{}{"tool": tool},
	}
}

// NewGenerationError wraps a failed call to the generative content service
func NewGenerationError(tool types.ToolID, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryProvider,
		StatusCode: http.StatusBadGateway,
		Code:       CodeGenerationFailed,
		Message:    fmt.Sprintf("content generation failed for %s", tool),
		Cause:      cause,
		Details:    map[string]interface{}{"tool": tool},
	}
}

// NewInvalidMarkupError reports a model reply that held no usable markup
func NewInvalidMarkupError(tool types.ToolID, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryProvider,
		StatusCode: http.StatusBadGateway,
		Code:       CodeInvalidMarkup,
		Message:    "the model returned invalid markup",
		Cause:      cause,
		Details:    map[string]interface{}{"tool": tool},
	}
}

// NewProviderUnavailableError reports an open circuit or missing credential
func NewProviderUnavailableError(provider string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryProvider,
		StatusCode: http.StatusServiceUnavailable,
		Code:       CodeProviderUnavailable,
		Message:    fmt.Sprintf("generative provider unavailable: %s", provider),
		Cause:      cause,
		Details:    map[string]interface{}{"provider": provider},
	}
}

// NewVideoJobNotFoundError creates a video job not found error
func NewVideoJobNotFoundError(id string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryNotFound,
		StatusCode: http.StatusNotFound,
		Code:       CodeVideoJobNotFound,
		Message:    fmt.Sprintf("video job not found: %s", id),
		Details:    map[string]interface{}{"jobId": id},
	}
}

// NewVideoNotReadyError reports a download attempt before completion
func NewVideoNotReadyError(id string, status types.VideoJobStatus) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryConflict,
		StatusCode: http.StatusConflict,
		Code:       CodeVideoNotReady,
		Message:    fmt.Sprintf("video job %s is %s", id, status),
		Details:    map[string]interface{}{"jobId": id, "status": status},
	}
}

// NewAnalyticsDisabledError reports that the usage log is not configured
func NewAnalyticsDisabledError() *CategorizedError {
	return &CategorizedError{
		Category:   CategorySystem,
		StatusCode: http.StatusServiceUnavailable,
		Code:       CodeAnalyticsDisabled,
		Message:    "usage analytics are disabled",
	}
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(tier types.UserTier, limit float64) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryRateLimit,
		StatusCode: http.StatusTooManyRequests,
		Code:       CodeRateLimitExceeded,
		Message:    "rate limit exceeded, please try again later",
		Details: map[string]interface{}{
			"tier":  tier,
			"limit": limit,
		},
	}
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryDatabase,
		StatusCode: http.StatusInternalServerError,
		Code:       CodeDatabaseError,
		Message:    fmt.Sprintf("database error during %s", operation),
		Cause:      cause,
		Details:    map[string]interface{}{"operation": operation},
	}
}

// NewCacheError creates a cache error
func NewCacheError(operation string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryCache,
		StatusCode: http.StatusInternalServerError,
		Code:       CodeCacheError,
		Message:    fmt.Sprintf("cache error during %s", operation),
		Cause:      cause,
		Details:    map[string]interface{}{"operation": operation},
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategorySystem,
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternalError,
		Message:    message,
		Cause:      cause,
	}
}

// Categorize finds the CategorizedError in err's chain, or wraps err as internal
func Categorize(err error) *CategorizedError {
	if err == nil {
		return nil
	}

	var catErr *CategorizedError
	if stderrors.As(err, &catErr) {
		return catErr
	}

	var svcErr *types.ServiceError
	if stderrors.As(err, &svcErr) {
		return categorizeServiceError(svcErr)
	}

	return NewInternalError("unexpected error", err)
}

func categorizeServiceError(err *types.ServiceError) *CategorizedError {
	out := &CategorizedError{Code: err.Code, Message: err.Message, Details: err.Details}
	switch err.Code {
	case CodeInvalidInput, CodeUnknownTool:
		out.Category, out.StatusCode = CategoryValidation, http.StatusBadRequest
	case CodeUserNotFound, CodeVideoJobNotFound:
		out.Category, out.StatusCode = CategoryNotFound, http.StatusNotFound
	case CodePanelBusy, CodeVideoNotReady:
		out.Category, out.StatusCode = CategoryConflict, http.StatusConflict
	default:
		out.Category, out.StatusCode = CategorySystem, http.StatusInternalServerError
	}
	return out
}

// GetHTTPStatusCode returns the HTTP status code for an error
func GetHTTPStatusCode(err error) int {
	if catErr := Categorize(err); catErr != nil {
		return catErr.StatusCode
	}
	return http.StatusOK
}

// IsRetryable determines if an error is worth another attempt
func IsRetryable(err error) bool {
	catErr := Categorize(err)
	if catErr == nil {
		return false
	}

	switch catErr.Category {
	case CategoryDatabase, CategoryCache:
		return true
	case CategoryProvider:
		// invalid markup and an open circuit are final for this request
		return catErr.Code == CodeGenerationFailed
	default:
		return false
	}
}

// IsUserError determines if an error is a user error (4xx)
func IsUserError(err error) bool {
	catErr := Categorize(err)
	return catErr != nil && catErr.StatusCode >= 400 && catErr.StatusCode < 500
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	catErr := Categorize(err)
	return catErr != nil && catErr.Category == CategoryNotFound
}
