package server

import (
	"encoding/json"
	"errors"
	"net/http"

	merrors "github.com/matzehuels/magnet/pkg/errors"
)

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code merrors.Code) int {
	switch code {
	case merrors.ErrCodeInvalidInput, merrors.ErrCodeInvalidSyntax, merrors.ErrCodeInvalidPole,
		merrors.ErrCodeInvalidFormat, merrors.ErrCodeDuplicateID:
		return http.StatusBadRequest
	case merrors.ErrCodeInvalidScene, merrors.ErrCodeUndefinedTarget, merrors.ErrCodeInfeasible:
		return http.StatusUnprocessableEntity
	case merrors.ErrCodeNotFound, merrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case merrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	status := statusFor(merrors.GetCode(err))
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}

	body := errorBody{
		Error:     merrors.UserMessage(err),
		Code:      string(merrors.GetCode(err)),
		RequestID: RequestID(r.Context()),
	}
	if status == http.StatusInternalServerError {
		body.Error = "internal error"
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
