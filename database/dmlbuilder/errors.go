package dmlbuilder

import (
	stderrors "errors"

	"github.com/gravitydb/gravity/errors"
)

// MissingTableReferenceError is returned by the Get*Query methods when the
// table the statement operates on was never set.  No partial statement is
// returned alongside it.
type MissingTableReferenceError struct {
	errors.GravityError
}

func newMissingTableReference(msg string) error {
	return MissingTableReferenceError{GravityError: errors.New(msg)}
}

// IsMissingTableReference reports whether err, or any error it wraps, is a
// MissingTableReferenceError.
func IsMissingTableReference(err error) bool {
	var target MissingTableReferenceError
	return stderrors.As(err, &target)
}
