// Package validation checks command-line inputs before any work starts.
package validation

import (
	"fmt"
	"os"
	"strings"
	"time"

	"fjacquet/speech-expense/internal/models"
	"fjacquet/speech-expense/internal/parsererror"
)

// Output formats understood by the commands.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// IsValidInputFile checks that path exists and is a regular file.
func IsValidInputFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return &parsererror.ValidationError{Subject: "input file", Reason: "path is required"}
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}
	return nil
}

// IsValidOutputFormat checks format against the formats a command supports.
func IsValidOutputFormat(format string, supported ...string) error {
	for _, s := range supported {
		if format == s {
			return nil
		}
	}
	return &parsererror.ValidationError{
		Subject: "output format",
		Reason:  fmt.Sprintf("unsupported output format: %s. Supported formats are '%s'", format, strings.Join(supported, "', '")),
	}
}

// ParseDate parses a YYYY-MM-DD date. An empty value means today.
func ParseDate(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	d, err := time.Parse(models.DateFormat, value)
	if err != nil {
		return time.Time{}, &parsererror.ValidationError{Subject: "date", Reason: "date must be YYYY-MM-DD", Err: err}
	}
	return d, nil
}
