package models

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrLookup        = errors.New("lookup error")
	ErrIO            = errors.New("io error")
)

// ConfigurationError reports input the operator has to fix before a run can start,
// such as a missing or ambiguous index file.
type ConfigurationError struct {
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("configuration: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// LookupError reports a record source (database or roster) that could not be read.
type LookupError struct {
	Source string
	Err    error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s: %v", e.Source, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

func (e *LookupError) Is(target error) bool { return target == ErrLookup }

// IOError reports a failed file operation on a document or report.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }
