package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/backoffice/internal/common"
)

type response struct {
	Data  any            `json:"data,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Error codes of the JSON envelope.
const (
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInternal           = "INTERNAL_ERROR"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, response{Error: &errorResponse{Code: code, Message: message}})
}

// errorStatus maps service errors onto the envelope. Internal details never
// reach the client.
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusConflict, CodeEmailAlreadyExists, common.ErrDuplicateEmail.Error()
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, CodeInvalidCredentials, common.ErrInvalidCredentials.Error()
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, CodeUnauthorized, "authentication required"
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, CodeForbidden, "insufficient permissions"
	case errors.Is(err, common.ErrUserNotFound):
		return http.StatusNotFound, CodeUserNotFound, common.ErrUserNotFound.Error()
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest, CodeInvalidInput, err.Error()
	default:
		return http.StatusInternalServerError, CodeInternal, "an internal error occurred"
	}
}

func writeAppError(w http.ResponseWriter, err error) {
	status, code, message := errorStatus(err)
	writeErrorCode(w, status, code, message)
}

func writeValidationError(w http.ResponseWriter, err error) {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{
				Code:    CodeInvalidInput,
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	writeErrorCode(w, http.StatusBadRequest, CodeInvalidInput, err.Error())
}
