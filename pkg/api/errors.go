package api

import "fmt"

// ParseError reports input that does not match the pipeline schema.
type ParseError struct {
	Source string // file name, empty for in-memory input
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("parsing pipeline: %v", e.Err)
	}
	return fmt.Sprintf("parsing pipeline %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
