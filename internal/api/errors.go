package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/scynet/scynet/pkg/errors"
)

// Problem is the JSON form of an error or warning.
type Problem struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error Problem `json:"error"`
	RunID string  `json:"run_id,omitempty"`
}

func problem(err error) Problem {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return Problem{Code: code, Message: errors.UserMessage(err)}
}

func problems(errs []error) []Problem {
	out := make([]Problem, 0, len(errs))
	for _, err := range errs {
		out = append(out, problem(err))
	}
	return out
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigurationMismatch,
		errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeMalformedFluxFile,
		errors.ErrCodeMalformedIdentifier,
		errors.ErrCodeUnresolvedSharedCompartment,
		errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeLayoutPrecondition:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errNotFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeNotFound, format, args...)
}

func errBadRequest(cause error, format string, args ...any) error {
	if cause == nil {
		return errors.New(errors.ErrCodeInvalidInput, format, args...)
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, cause, format, args...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	p := problem(err)
	if status == http.StatusRequestEntityTooLarge {
		p = Problem{Code: errors.ErrCodeInvalidInput, Message: fmt.Sprintf("request body too large: %v", err)}
	}
	writeJSON(w, status, ErrorResponse{Error: p, RunID: RunID(r.Context())})
}
