package candidate

import (
	"net/http"

	"github.com/Abraxas-365/hirehub/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("CANDIDATE")

// Error codes
var (
	CodeCandidateNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Candidate not found")
	CodeCandidateAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "This account is already registered")
	CodeNotRegistered          = ErrRegistry.Register("NOT_REGISTERED", errx.TypeNotFound, http.StatusNotFound, "Please complete registration first")
	CodeInvalidLoginCode       = ErrRegistry.Register("INVALID_LOGIN_CODE", errx.TypeAuthentication, http.StatusUnauthorized, "Login code is invalid or expired")
	CodeIdentityUnavailable    = ErrRegistry.Register("IDENTITY_UNAVAILABLE", errx.TypeUnavailable, http.StatusServiceUnavailable, "Sign-in is temporarily unavailable, please retry")
	CodeLoginDisabled          = ErrRegistry.Register("LOGIN_DISABLED", errx.TypeUnavailable, http.StatusServiceUnavailable, "Sign-in is not available on this server")
	CodeInvalidPhone           = ErrRegistry.Register("INVALID_PHONE", errx.TypeValidation, http.StatusBadRequest, "Invalid phone format")
	CodeEmptyUpdate            = ErrRegistry.Register("EMPTY_UPDATE", errx.TypeValidation, http.StatusBadRequest, "Nothing to update")
	CodeInvalidRequest         = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request data")
	CodeValidationFailed       = ErrRegistry.Register("VALIDATION_FAILED", errx.TypeValidation, http.StatusBadRequest, "Request validation failed")
	CodeInvalidPagination      = ErrRegistry.Register("INVALID_PAGINATION", errx.TypeValidation, http.StatusBadRequest, "Invalid pagination parameters")
	CodeStoreUnavailable       = ErrRegistry.Register("STORE_UNAVAILABLE", errx.TypeUnavailable, http.StatusServiceUnavailable, "Service is temporarily unavailable, please retry")
	CodeInvalidResume          = ErrRegistry.Register("INVALID_RESUME", errx.TypeValidation, http.StatusBadRequest, "Résumé must be a PDF or image up to 10MB")
	CodeResumeNotFound         = ErrRegistry.Register("RESUME_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "No résumé on file")
	CodeResumeUploadFailed     = ErrRegistry.Register("RESUME_UPLOAD_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to store your résumé, please retry")
)

// Helper functions
func ErrCandidateNotFound() *errx.Error {
	return ErrRegistry.New(CodeCandidateNotFound)
}

func ErrCandidateAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeCandidateAlreadyExists)
}

func ErrNotRegistered() *errx.Error {
	return ErrRegistry.New(CodeNotRegistered)
}

func ErrInvalidLoginCode() *errx.Error {
	return ErrRegistry.New(CodeInvalidLoginCode)
}

func ErrIdentityUnavailable() *errx.Error {
	return ErrRegistry.New(CodeIdentityUnavailable)
}

func ErrLoginDisabled() *errx.Error {
	return ErrRegistry.New(CodeLoginDisabled)
}

func ErrInvalidPhone() *errx.Error {
	return ErrRegistry.New(CodeInvalidPhone)
}

func ErrEmptyUpdate() *errx.Error {
	return ErrRegistry.New(CodeEmptyUpdate)
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

func ErrStoreUnavailable(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeStoreUnavailable, cause)
}

func ErrInvalidResume() *errx.Error {
	return ErrRegistry.New(CodeInvalidResume)
}

func ErrResumeUploadFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeResumeUploadFailed, cause)
}

func ErrResumeNotFound() *errx.Error {
	return ErrRegistry.New(CodeResumeNotFound)
}
