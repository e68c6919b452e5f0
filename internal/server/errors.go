package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/calgrid/pkg/errors"
)

type errorBody struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func errNotFound(path string) error {
	return errors.New(errors.ErrCodeNotFound, "no route for %s", path)
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code.Class() {
	case errors.ClassInput:
		return http.StatusBadRequest
	case errors.ClassNotFound:
		return http.StatusNotFound
	}
	switch code {
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeParseFailed:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorBody{
		Code:      errors.GetCode(err),
		Message:   errors.UserMessage(err),
		RequestID: middleware.GetReqID(r.Context()),
	}
	var rl *errors.RateLimitedError
	if stderrors.As(err, &rl) {
		body.Message = rl.Error()
		if rl.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter))
		}
	}
	if body.Code == "" {
		body.Code = errors.ErrCodeInternal
		body.Message = "internal error"
	}
	writeJSON(w, statusFor(body.Code), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
