package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrSchemaPathRequired is returned when a Config has no schema path
var ErrSchemaPathRequired = errors.New("validator: schema path is required")

// ValidationIssue describes one schema violation within a request or
// response.
type ValidationIssue struct {
	// Path locates the offending element: a parameter name, a JSON body
	// pointer, or the request path for routing failures.
	Path string `json:"path"`

	// Message is the human-readable description of the violation.
	Message string `json:"message"`

	// ErrorCode classifies the violation (e.g. "bad_parameter",
	// "invalid_body", "route_not_found").
	ErrorCode string `json:"errorCode"`
}

// ValidationError carries the status and the individual violations of a
// failed schema validation. It implements the error interface so it can flow
// through ordinary error-returning call chains, and WriteValidationError can
// recognize it on the way out.
type ValidationError struct {
	// Status is the HTTP status the violation maps to.
	Status int `json:"status"`

	// Errors lists the individual violations.
	Errors []ValidationIssue `json:"errors"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("validation failed with status %d", e.Status)
	}
	return fmt.Sprintf("validation failed with status %d: %s", e.Status, e.Errors[0].Message)
}

// validationResponse is the normalized JSON body written for a validation
// failure.
type validationResponse struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Errors  []ValidationIssue `json:"errors"`
}

// WriteValidationError writes the normalized {status, message, errors[]}
// JSON body iff err is (or wraps) a *ValidationError, and reports whether it
// did. A non-validation error leaves the ResponseWriter untouched and
// returns false so the caller can forward the error unchanged - unrelated
// errors are never double-handled here.
//
// Example:
//
//	if !validator.WriteValidationError(w, err) {
//	    http.Error(w, "internal error", http.StatusInternalServerError)
//	}
func WriteValidationError(w http.ResponseWriter, err error) bool {
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		return false
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(vErr.Status)
	_ = json.NewEncoder(w).Encode(validationResponse{
		Status:  vErr.Status,
		Message: "schema validation failed",
		Errors:  vErr.Errors,
	})
	return true
}
