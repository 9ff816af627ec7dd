package postarch

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// The first three are general-purpose; the rest name the failure classes
// of the archival pipeline. The orchestrator uses the code to decide how
// far a failure propagates: source codes skip the source, post codes skip
// the post, asset and render codes degrade within a post.
const (
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
	EINTERNAL = "internal"

	ESOURCE    = "source_unreachable"
	ETRANSIENT = "transient_fetch"
	EPERMANENT = "permanent_fetch"
	EEXTRACT   = "extraction"
	EASSET     = "asset_fetch"
	ERENDER    = "render"
	ESTORE     = "store_write"
)

// Error represents an application error with a machine-readable code
// and a human-readable message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("postarch error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode returns the code of the root error, if available.
// Otherwise returns EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the message of the root error, if available.
// Otherwise returns a generic error message.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
