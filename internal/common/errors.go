// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Ingestion errors.
	ErrMissingColumn = errors.New("required column missing")
	ErrEmptyFile     = errors.New("no rows in input file")

	// Ledger errors.
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrEmptyLedger         = errors.New("ledger is empty")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// SchemaError reports required columns absent from a source file. It aborts
// ingestion of that file; rows are never partially parsed around it.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Source, ErrMissingColumn, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrMissingColumn
}

// NewSchemaError creates a SchemaError for the given source and column names.
func NewSchemaError(source string, missing ...string) error {
	return &SchemaError{Source: source, Missing: missing}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
