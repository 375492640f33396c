package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeSessionExpired     ErrorCode = "SESSION_EXPIRED"
	ErrCodeDuplicateEmail     ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeSelfDeletion       ErrorCode = "SELF_DELETION"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"

	ErrCodeTravelNotFound      ErrorCode = "TRAVEL_REQUEST_NOT_FOUND"
	ErrCodeInvalidTravelStatus ErrorCode = "INVALID_TRAVEL_STATUS"
	ErrCodeReasonRequired      ErrorCode = "REJECTION_REASON_REQUIRED"

	ErrCodeAttachmentNotFound   ErrorCode = "ATTACHMENT_NOT_FOUND"
	ErrCodeRequestNotApproved   ErrorCode = "REQUEST_NOT_APPROVED"
	ErrCodeFileTooLarge         ErrorCode = "FILE_TOO_LARGE"
	ErrCodeEmployeeNotFound     ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeDocumentNotFound     ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrCodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Messages() string {
	msgs := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		msgs[i] = err.Message
	}
	return strings.Join(msgs, "; ")
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(ErrCodeValidationFailed)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrUserNotFound       = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrInvalidCredentials = NewUnauthorizedError("invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("user account is inactive", ErrCodeUserInactive)
	ErrSessionExpired     = NewUnauthorizedError("session has expired", ErrCodeSessionExpired)
	ErrDuplicateEmail     = NewConflictError("email is already registered", ErrCodeDuplicateEmail)
	ErrSelfDeletion       = NewValidationError("you cannot delete your own account", ErrCodeSelfDeletion)
	ErrForbidden          = NewForbiddenError("insufficient permissions", ErrCodeForbidden)

	ErrTravelNotFound      = NewNotFoundError("travel request not found", ErrCodeTravelNotFound)
	ErrInvalidTravelStatus = NewValidationError("travel request is not pending", ErrCodeInvalidTravelStatus)
	ErrReasonRequired      = NewValidationError("rejection reason is required", ErrCodeReasonRequired)

	ErrAttachmentNotFound   = NewNotFoundError("attachment not found", ErrCodeAttachmentNotFound)
	ErrRequestNotApproved   = NewValidationError("only approved requests accept attachments", ErrCodeRequestNotApproved)
	ErrFileTooLarge         = NewValidationError("file exceeds the 10MB limit", ErrCodeFileTooLarge)
	ErrEmployeeNotFound     = NewNotFoundError("employee not found", ErrCodeEmployeeNotFound)
	ErrDocumentNotFound     = NewNotFoundError("document not found", ErrCodeDocumentNotFound)
	ErrNotificationNotFound = NewNotFoundError("notification not found", ErrCodeNotificationNotFound)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
