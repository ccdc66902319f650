// Package parsererror defines the typed errors returned by the category store,
// the transcript reader and the transaction draft.
package parsererror

import "fmt"

// ValidationError represents a validation failure of a value that was read
// correctly but does not satisfy a rule, such as a draft without an account.
type ValidationError struct {
	Subject string
	Reason  string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed for %s: %s: %v", e.Subject, e.Reason, e.Err)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Subject, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an error where an input file does not conform
// to the expected format, e.g. a category file that is neither a list nor a
// categories mapping.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string // Optional: a snippet of the actual content for debugging
	Msg                  string
	Err                  error
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}

// Snippet shortens content for use in ActualContentSnippet.
func Snippet(content []byte, limit int) string {
	if len(content) <= limit {
		return string(content)
	}
	return string(content[:limit]) + "..."
}
