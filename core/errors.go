package core

import (
	"errors"
	"fmt"
)

// Error categories. Remote errors are wrapped behind these so callers can
// tell them apart with errors.Is and still read the remote text verbatim.
var (
	ErrConfig         = errors.New("invalid foreign table configuration")
	ErrClientInit     = errors.New("failed to initialise the MySQL connection object")
	ErrConnect        = errors.New("failed to connect to MySQL")
	ErrQuery          = errors.New("failed to execute the MySQL query")
	ErrConversion     = errors.New("invalid input value")
	ErrEncoding       = errors.New("invalid byte sequence")
	ErrSchemaMismatch = errors.New("remote row does not match local schema")

	ErrSessionNotOpen = errors.New("scan session is not open")
	ErrSessionClosed  = errors.New("scan session is closed")
)

var (
	ErrNoTableOrQuery    = fmt.Errorf("%w: either a table or a query must be specified", ErrConfig)
	ErrInvalidOptionName = func(name, hint string) error {
		return fmt.Errorf("%w: invalid option %q (Valid options in this context are: %s)", ErrConfig, name, hint)
	}
	ErrRedundantOption = func(name, value string) error {
		if value == "" {
			return fmt.Errorf("%w: conflicting or redundant options: %s", ErrConfig, name)
		}
		return fmt.Errorf("%w: conflicting or redundant options: %s (%s)", ErrConfig, name, value)
	}
	ErrConflictingOption = func(name, other string) error {
		return fmt.Errorf("%w: conflicting options: %s cannot be used with %s", ErrConfig, name, other)
	}
)

var categories = []error{ErrConfig, ErrClientInit, ErrConnect, ErrQuery, ErrConversion, ErrEncoding, ErrSchemaMismatch}

// wrapRemote attaches a category to an error returned by the remote client.
// Errors that already carry a category are returned as they are.
func wrapRemote(category error, err error) error {
	if err == nil {
		return category
	}
	for _, c := range categories {
		if errors.Is(err, c) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", category, err)
}
