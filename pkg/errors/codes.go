package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string identifier for a specific error condition.  The part
// before the first underscore names the owning module.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeOK             ErrorCode = "OK"
	ErrCodeUnknown        ErrorCode = "COMMON_000"
	ErrCodeInternal       ErrorCode = "COMMON_001"
	ErrCodeBadRequest     ErrorCode = "COMMON_002"
	ErrCodeNotFound       ErrorCode = "COMMON_005"
	ErrCodeValidation     ErrorCode = "COMMON_010"
	ErrCodeSerialization  ErrorCode = "COMMON_011"
	ErrCodeNotImplemented ErrorCode = "COMMON_016"
)

// Dataset error codes.  Unparsable and excluded records are the skip class;
// every other DS code aborts the enclosing operation.
const (
	ErrCodeRecordUnparsable       ErrorCode = "DS_001"
	ErrCodeRecordExcluded         ErrorCode = "DS_002"
	ErrCodeUnsupportedAtom        ErrorCode = "DS_003"
	ErrCodeUnknownSplit           ErrorCode = "DS_004"
	ErrCodeUnknownTarget          ErrorCode = "DS_005"
	ErrCodeSplitSizeMismatch      ErrorCode = "DS_006"
	ErrCodeLabelTableInvalid      ErrorCode = "DS_007"
	ErrCodeExclusionListInvalid   ErrorCode = "DS_008"
	ErrCodeCapacityExceeded       ErrorCode = "DS_009"
	ErrCodeEmptyBatch             ErrorCode = "DS_010"
	ErrCodeIndexOutOfRange        ErrorCode = "DS_011"
	ErrCodeGraphInvariantViolated ErrorCode = "DS_012"
)

// Corpus cache error codes.
const (
	ErrCodeCacheMiss    ErrorCode = "CACHE_001"
	ErrCodeCacheCorrupt ErrorCode = "CACHE_002"
	ErrCodeCacheIO      ErrorCode = "CACHE_003"
)

// ErrorCodeHTTPStatus maps codes to HTTP status codes for the inspection API.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:       http.StatusInternalServerError,
	ErrCodeBadRequest:     http.StatusBadRequest,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeValidation:     http.StatusUnprocessableEntity,
	ErrCodeSerialization:  http.StatusInternalServerError,
	ErrCodeNotImplemented: http.StatusNotImplemented,

	ErrCodeRecordUnparsable:       http.StatusUnprocessableEntity,
	ErrCodeRecordExcluded:         http.StatusUnprocessableEntity,
	ErrCodeUnsupportedAtom:        http.StatusUnprocessableEntity,
	ErrCodeUnknownSplit:           http.StatusBadRequest,
	ErrCodeUnknownTarget:          http.StatusBadRequest,
	ErrCodeSplitSizeMismatch:      http.StatusInternalServerError,
	ErrCodeLabelTableInvalid:      http.StatusInternalServerError,
	ErrCodeExclusionListInvalid:   http.StatusInternalServerError,
	ErrCodeCapacityExceeded:       http.StatusUnprocessableEntity,
	ErrCodeEmptyBatch:             http.StatusBadRequest,
	ErrCodeIndexOutOfRange:        http.StatusNotFound,
	ErrCodeGraphInvariantViolated: http.StatusInternalServerError,

	ErrCodeCacheMiss:    http.StatusNotFound,
	ErrCodeCacheCorrupt: http.StatusInternalServerError,
	ErrCodeCacheIO:      http.StatusServiceUnavailable,
}

// ErrorCodeMessage maps codes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:       "internal error",
	ErrCodeBadRequest:     "bad request",
	ErrCodeNotFound:       "resource not found",
	ErrCodeValidation:     "validation failed",
	ErrCodeSerialization:  "serialization failed",
	ErrCodeNotImplemented: "not implemented",

	ErrCodeRecordUnparsable:       "structure record could not be parsed",
	ErrCodeRecordExcluded:         "structure record is excluded",
	ErrCodeUnsupportedAtom:        "atomic number outside the supported vocabulary",
	ErrCodeUnknownSplit:           "unknown subset name",
	ErrCodeUnknownTarget:          "unknown target name",
	ErrCodeSplitSizeMismatch:      "split sizes do not match corpus size",
	ErrCodeLabelTableInvalid:      "invalid label table",
	ErrCodeExclusionListInvalid:   "invalid exclusion list",
	ErrCodeCapacityExceeded:       "batch exceeds reserved padding capacity",
	ErrCodeEmptyBatch:             "batch is empty",
	ErrCodeIndexOutOfRange:        "index out of range",
	ErrCodeGraphInvariantViolated: "molecule graph invariant violated",

	ErrCodeCacheMiss:    "cache miss",
	ErrCodeCacheCorrupt: "corpus snapshot is corrupt",
	ErrCodeCacheIO:      "corpus cache I/O failure",
}

// HTTPStatusForCode returns the HTTP status for code, 500 when unmapped.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for code.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of code ("DS", "CACHE", ...).
func ModuleForCode(code ErrorCode) string {
	parts := strings.SplitN(string(code), "_", 2)
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
