package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Freeeeeet/staff_scheduler/internal/apperrors"
)

// Коды ошибок в теле ответа
const (
	codeBadRequest         = "bad_request"
	codeValidation         = "validation_failed"
	codeNotFound           = "not_found"
	codeConflict           = "overlap_conflict"
	codeSlotUnavailable    = "slot_unavailable"
	codeStaffMismatch      = "staff_mismatch"
	codeSlotHasAppointment = "slot_has_appointment"
	codeInvalidTransition  = "invalid_transition"
	codeInternal           = "internal_error"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// errorStatus переводит доменную ошибку в HTTP-статус и тело ответа.
// Всё, что не является доменной ошибкой, отдаётся как непрозрачная 500.
func errorStatus(err error) (int, ErrorResponse) {
	var (
		validationErr *apperrors.ValidationError
		conflictErr   *apperrors.ConflictError
		notFoundErr   *apperrors.NotFoundError
		syntaxErr     *json.SyntaxError
		typeErr       *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, ErrorResponse{Code: codeValidation, Message: err.Error(), Details: validationErr.Fields}
	case errors.As(err, &conflictErr):
		return http.StatusConflict, ErrorResponse{Code: codeConflict, Message: err.Error(), Details: conflictErr.Conflicts}
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, ErrorResponse{Code: codeNotFound, Message: err.Error()}
	case errors.Is(err, apperrors.ErrSlotUnavailable):
		return http.StatusConflict, ErrorResponse{Code: codeSlotUnavailable, Message: err.Error()}
	case errors.Is(err, apperrors.ErrStaffMismatch):
		return http.StatusUnprocessableEntity, ErrorResponse{Code: codeStaffMismatch, Message: err.Error()}
	case errors.Is(err, apperrors.ErrSlotHasAppointment):
		return http.StatusBadRequest, ErrorResponse{Code: codeSlotHasAppointment, Message: err.Error()}
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, ErrorResponse{Code: codeInvalidTransition, Message: err.Error()}
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, errBadRequest):
		return http.StatusBadRequest, ErrorResponse{Code: codeBadRequest, Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{Code: codeInternal, Message: "Internal server error"}
	}
}

var errBadRequest = errors.New("bad request")
