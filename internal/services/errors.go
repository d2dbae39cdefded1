package services

import "fmt"

// ConfigurationError means the language model could not be configured
// (missing or rejected API key, unknown model).
type ConfigurationError struct {
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

type ExtractionErrorKind int

const (
	ExtractionFailed ExtractionErrorKind = iota
	UnsupportedType
	SizeExceeded
)

// ExtractionError is returned by the text extractor. Message is safe to show to the user.
type ExtractionError struct {
	Kind    ExtractionErrorKind
	Message string
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ModelCallError wraps a failed summarize / split / question call.
type ModelCallError struct {
	Op  string
	Err error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ModelCallError) Unwrap() error { return e.Err }
