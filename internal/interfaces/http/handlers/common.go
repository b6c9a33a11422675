// Package handlers implements the read-only HTTP inspection surface.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/turtacn/molgraph/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeAppError maps coded errors to their HTTP status.  Errors without a
// known code are masked as internal errors.
func writeAppError(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if !errors.As(err, &appErr) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Code:    string(errors.ErrCodeInternal),
			Message: "internal server error",
		})
		return
	}
	status := errors.HTTPStatusForCode(appErr.Code)
	resp := ErrorResponse{Code: string(appErr.Code), Message: appErr.Message, Detail: appErr.Detail}
	if status >= http.StatusInternalServerError {
		resp.Detail = ""
	}
	writeJSON(w, status, resp)
}

// intParam parses a non-negative integer path or query value.
func intParam(name, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New(errors.ErrCodeBadRequest, name+" must be a non-negative integer").
			WithDetail(name + "=" + raw)
	}
	return v, nil
}

// boolQuery reads an optional boolean query parameter.
func boolQuery(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New(errors.ErrCodeBadRequest, name+" must be a boolean").WithDetail(name + "=" + raw)
	}
	return v, nil
}

//Personal.AI order the ending
