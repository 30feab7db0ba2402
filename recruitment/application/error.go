package application

import (
	"net/http"

	"github.com/Abraxas-365/hirehub/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("APPLICATION")

// Error codes. Messages are user-facing; codes are for logs and clients.
var (
	CodeApplicationNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Application not found")
	CodeViewNotFound        = ErrRegistry.Register("VIEW_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Application details are not available yet")
	CodeMissingIdentifier   = ErrRegistry.Register("MISSING_IDENTIFIER", errx.TypeValidation, http.StatusBadRequest, "Both a candidate and a job are required")
	CodeIncompleteJoin      = ErrRegistry.Register("INCOMPLETE_JOIN", errx.TypeBusiness, http.StatusUnprocessableEntity, "Your application was saved, but its details could not be prepared")
	CodeStoreUnavailable    = ErrRegistry.Register("STORE_UNAVAILABLE", errx.TypeUnavailable, http.StatusServiceUnavailable, "Service is temporarily unavailable, please retry")
	CodeJobClosed           = ErrRegistry.Register("JOB_CLOSED", errx.TypeConflict, http.StatusConflict, "This job is no longer accepting applications")
	CodeSubmitInProgress    = ErrRegistry.Register("SUBMIT_IN_PROGRESS", errx.TypeRateLimit, http.StatusTooManyRequests, "Your application is being submitted, please wait a moment")
	CodeInvalidStatus       = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Invalid application status")
	CodeInvalidRequest      = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
	CodeValidationFailed    = ErrRegistry.Register("VALIDATION_FAILED", errx.TypeValidation, http.StatusBadRequest, "Request validation failed")
	CodeInvalidPagination   = ErrRegistry.Register("INVALID_PAGINATION", errx.TypeValidation, http.StatusBadRequest, "Invalid pagination parameters")
	CodeInvalidTimeRange    = ErrRegistry.Register("INVALID_TIME_RANGE", errx.TypeValidation, http.StatusBadRequest, "Start date must not be after end date")
	CodeExportFailed        = ErrRegistry.Register("EXPORT_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to export applications")
	CodeQueueUnavailable    = ErrRegistry.Register("QUEUE_UNAVAILABLE", errx.TypeUnavailable, http.StatusServiceUnavailable, "Background processing is temporarily unavailable")
)

// Helper functions
func ErrApplicationNotFound() *errx.Error {
	return ErrRegistry.New(CodeApplicationNotFound)
}

func ErrViewNotFound() *errx.Error {
	return ErrRegistry.New(CodeViewNotFound)
}

func ErrMissingIdentifier() *errx.Error {
	return ErrRegistry.New(CodeMissingIdentifier)
}

func ErrIncompleteJoin() *errx.Error {
	return ErrRegistry.New(CodeIncompleteJoin)
}

func ErrStoreUnavailable(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeStoreUnavailable, cause)
}

func ErrJobClosed() *errx.Error {
	return ErrRegistry.New(CodeJobClosed)
}

func ErrSubmitInProgress() *errx.Error {
	return ErrRegistry.New(CodeSubmitInProgress)
}

func ErrInvalidStatus() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus)
}

func ErrInvalidRequest() *errx.Error {
	return ErrRegistry.New(CodeInvalidRequest)
}

func ErrValidationFailed() *errx.Error {
	return ErrRegistry.New(CodeValidationFailed)
}

func ErrInvalidPagination() *errx.Error {
	return ErrRegistry.New(CodeInvalidPagination)
}

func ErrInvalidTimeRange() *errx.Error {
	return ErrRegistry.New(CodeInvalidTimeRange)
}

func ErrExportFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeExportFailed, cause)
}

func ErrQueueUnavailable(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeQueueUnavailable, cause)
}
