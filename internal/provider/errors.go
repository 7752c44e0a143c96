package provider

import (
	"errors"
	"fmt"
)

// Operations reported in Error.Op
const (
	OpList  = "list"
	OpParse = "parse"
	OpFetch = "fetch"
)

// ErrNoFormats is returned when the listing contains no usable format
var ErrNoFormats = errors.New("no usable formats")

// Error is a provider failure for one item
type Error struct {
	Op  string
	Ref string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s %s: %v", e.Op, e.Ref, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same Op, or an empty Op as wildcard
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" || t.Op == e.Op
}
