// Package errors defines the typed error values filtmgr operations return.
//
// Every error here maps onto exactly one of the four return codes the
// specification assigns to manager operations: 0 success, -1 precondition
// (filter missing or already gone), -2 internal (underlying filter or
// allocation failure), -3 conflict (name collides with a pending delete).
// Code returns ([Code]) exist purely to let callers reproduce the C-style
// numeric taxonomy without string matching.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Code is the return-code taxonomy from the specification.
type Code int

const (
	CodeOK           Code = 0
	CodePrecondition Code = -1
	CodeInternal     Code = -2
	CodeConflict     Code = -3
)

// FilterNotFoundError is returned when an operation names a filter that is
// absent from latest.index, or present but not active.
type FilterNotFoundError struct {
	Name string
}

func (e *FilterNotFoundError) Error() string {
	return fmt.Sprintf("filtmgr: no such filter %q", e.Name)
}

func (e *FilterNotFoundError) Code() Code { return CodePrecondition }

// FilterExistsError is returned by create when the name is already present
// in latest.index, regardless of is_active.
type FilterExistsError struct {
	Name string
}

func (e *FilterExistsError) Error() string {
	return fmt.Sprintf("filtmgr: filter %q already exists", e.Name)
}

func (e *FilterExistsError) Code() Code { return CodePrecondition }

// PendingDeleteError is returned by create when an older, unreclaimed
// version still parks a deleted wrapper under the requested name.
type PendingDeleteError struct {
	Name string
}

func (e *PendingDeleteError) Error() string {
	return fmt.Sprintf("filtmgr: filter %q has a pending delete awaiting vacuum", e.Name)
}

func (e *PendingDeleteError) Code() Code { return CodeConflict }

// NotProxiedError is returned by clear when the target filter is not a
// proxied filter and therefore cannot be reset in place.
type NotProxiedError struct {
	Name string
}

func (e *NotProxiedError) Error() string {
	return fmt.Sprintf("filtmgr: filter %q is not proxied, cannot clear", e.Name)
}

func (e *NotProxiedError) Code() Code { return CodeInternal }

// InternalError wraps a failure from the underlying filter or from
// allocating a new version. Wrapped with cockroachdb/errors so the
// original stack is preserved for logs without leaking it into Error().
type InternalError struct {
	Op  string
	err error
}

func WrapInternal(op string, cause error) *InternalError {
	return &InternalError{Op: op, err: errors.Wrapf(cause, "filtmgr: %s", op)}
}

func (e *InternalError) Error() string { return e.err.Error() }
func (e *InternalError) Unwrap() error { return e.err }
func (e *InternalError) Code() Code    { return CodeInternal }

// AsCode maps any error returned by this package (or nil) onto the
// specification's numeric return code, for callers that bridge into a
// C-style integer-returning API.
func AsCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	var coder interface{ Code() Code }
	if errors.As(err, &coder) {
		return coder.Code()
	}
	return CodeInternal
}
