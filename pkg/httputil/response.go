package httputil

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/matzehuels/railinfra/pkg/errors"
)

// MaxBodySize bounds request bodies read by [DecodeJSON].
const MaxBodySize = 1 << 20

// ErrorBody is the JSON body of an error response.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// WriteError writes err as an [ErrorBody] with the status for its code.
func WriteError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	body := ErrorBody{Code: code, Message: errors.UserMessage(err)}
	if code == "" {
		body = ErrorBody{Code: errors.ErrCodeInternal, Message: "internal error"}
	}
	WriteJSON(w, StatusFor(err), body)
}

// StatusFor returns the HTTP status for err.
func StatusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidScene, errors.ErrCodeInvalidRegion,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidCommand:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeRegionNotFound, errors.ErrCodeVehicleNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeAlreadyRegistered:
		return http.StatusConflict
	case errors.ErrCodeUnresolvedReference, errors.ErrCodePlaceholderLeak:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// DecodeJSON decodes the request body into v, rejecting unknown fields and
// bodies larger than MaxBodySize.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
