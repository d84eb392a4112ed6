// Package cli provides shared configuration and utilities for the gravity CLI.
package cli

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/gravitydb/gravity/database/dmlbuilder"
	"github.com/gravitydb/gravity/errors"
)

// Process exit codes.
const (
	ExitSuccess         = 0
	ExitGeneral         = 1
	ExitConfig          = 2
	ExitQueryDocument   = 3
	ExitMissingTableRef = 4
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, errors.GetMessage(e.Err))
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps err to a process exit code.  A missing table reference
// anywhere in the chain wins over the code of an enclosing ExitError.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if dmlbuilder.IsMissingTableReference(err) {
		return ExitMissingTableRef
	}
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitGeneral
}

// ReportError prints err to w and returns the exit code to use.
func ReportError(w io.Writer, err error) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintln(w, "Error:", err.Error())
	return ExitCode(err)
}

// ConfigError creates an ExitError with ExitConfig code.
func ConfigError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitConfig, Message: msg, Err: err}
}

// QueryDocumentError creates an ExitError with ExitQueryDocument code.
func QueryDocumentError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitQueryDocument, Message: msg, Err: err}
}

// GeneralError creates an ExitError with ExitGeneral code.
func GeneralError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitGeneral, Message: msg, Err: err}
}
