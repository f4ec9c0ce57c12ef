// Package respond writes JSON responses and maps classified errors to HTTP
// status codes.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chris/wallet-kiosk/pkg/api"
	"github.com/chris/wallet-kiosk/pkg/errs"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// Error writes err as an api.Error with the status of its kind.
func Error(w http.ResponseWriter, err error) {
	kind := errs.KindOf(err)
	message := errs.MessageOf(err)
	if kind == errs.KindInternal {
		message = "internal error"
	}
	JSON(w, StatusOf(kind), api.Error{Message: message, Error: string(kind)})
}

// BadRequest writes a validation error for a malformed request.
func BadRequest(w http.ResponseWriter, format string, args ...any) {
	Error(w, errs.Newf(errs.KindValidation, format, args...))
}

// ParamError is the ErrorHandlerFunc for parameter binding failures.
func ParamError(w http.ResponseWriter, _ *http.Request, err error) {
	BadRequest(w, "%v", err)
}

// StatusOf maps an error kind to an HTTP status code.
func StatusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindProductNotFound, errs.KindCustomerNotFound:
		return http.StatusNotFound
	case errs.KindInsufficientStock, errs.KindInsufficientFunds:
		return http.StatusUnprocessableEntity
	case errs.KindDuplicateRequest:
		return http.StatusConflict
	case errs.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	case errs.KindPartialFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
