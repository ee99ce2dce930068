package schemacheck

import (
	"os"

	"github.com/valyala/fastjson"
)

const (
	MessageValid   = "OpenAPI schema is valid."
	MessageInvalid = "OpenAPI schema is invalid."
)

// Result is the outcome of a well-formedness check. Err holds the parse or read
// error for logging, the caller only ever sees valid or invalid.
type Result struct {
	Valid bool
	Err   error
}

func (r Result) Message() string {
	if r.Valid {
		return MessageValid
	}
	return MessageInvalid
}

// CheckBytes reports whether b is a single well-formed JSON value. Empty input is
// not.
func CheckBytes(b []byte) Result {
	if err := fastjson.ValidateBytes(b); err != nil {
		return Result{Valid: false, Err: err}
	}
	return Result{Valid: true}
}

func CheckFile(name string) Result {
	bs, err := os.ReadFile(name)
	if err != nil {
		return Result{Valid: false, Err: err}
	}
	return CheckBytes(bs)
}
