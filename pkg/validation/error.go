// Package validation holds the input checks shared by the intake and
// review forms: the free-text denylist and the subdomain parser. Every
// rejection carries a machine code the caller maps to a localized message.
package validation

import "errors"

// Error codes surfaced to callers. Subdomain codes select a
// "createwiki-error-<code>" message; text codes select a
// "requestwiki-error-<code>" message.
const (
	CodeNotAlphanumeric = "notalphnumeric"
	CodeSubdomainTaken  = "subdomaintaken"
	CodeDisallowed      = "disallowed"
	CodeInvalidComment  = "invalidcomment"
	CodeRequired        = "required"
)

// Error is a validation rejection with a stable machine code. Every
// rejection path sets a code; a failed check without one is not possible
// by construction.
type Error struct {
	Code string
}

func (e *Error) Error() string {
	return "validation: " + e.Code
}

// CodeOf extracts the machine code from err, or "" when err is not a
// validation error.
func CodeOf(err error) string {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Code
	}
	return ""
}
