package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ValidationError
		expected string
	}{
		{
			name:     "draft without account",
			err:      &ValidationError{Subject: "transaction draft", Reason: "account_id is required"},
			expected: "validation failed for transaction draft: account_id is required",
		},
		{
			name: "configuration with wrapped cause",
			err: &ValidationError{
				Subject: "configuration",
				Reason:  "invalid log level",
				Err:     errors.New("unknown level 'loud'"),
			},
			expected: "validation failed for configuration: invalid log level: unknown level 'loud'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestInvalidFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      *InvalidFormatError
		expected string
	}{
		{
			name: "with content snippet",
			err: &InvalidFormatError{
				FilePath:             "/path/to/categories.yaml",
				ExpectedFormat:       "category list",
				ActualContentSnippet: "42",
				Msg:                  "unrecognized document",
			},
			expected: "invalid format in file '/path/to/categories.yaml': unrecognized document. Expected: category list. Content snippet: '42'",
		},
		{
			name: "without content snippet",
			err: &InvalidFormatError{
				FilePath:       "/path/to/transcripts.csv",
				ExpectedFormat: "transcript CSV",
				Msg:            "missing transcript column",
			},
			expected: "invalid format in file '/path/to/transcripts.csv': missing transcript column. Expected: transcript CSV",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorWrappingPatterns(t *testing.T) {
	t.Run("ValidationError unwraps", func(t *testing.T) {
		cause := errors.New("cause")
		err := fmt.Errorf("loading config: %w", &ValidationError{Subject: "configuration", Reason: "bad", Err: cause})

		var target *ValidationError
		assert.True(t, errors.As(err, &target))
		assert.Equal(t, "configuration", target.Subject)
		assert.True(t, errors.Is(err, cause))
		assert.Nil(t, (&ValidationError{}).Unwrap())
	})

	t.Run("InvalidFormatError unwraps", func(t *testing.T) {
		cause := errors.New("yaml: line 1")
		err := fmt.Errorf("loading categories: %w", &InvalidFormatError{FilePath: "c.yaml", Err: cause})

		var target *InvalidFormatError
		assert.True(t, errors.As(err, &target))
		assert.Equal(t, "c.yaml", target.FilePath)
		assert.True(t, errors.Is(err, cause))
	})
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short", Snippet([]byte("short"), 10))
	assert.Equal(t, "abc...", Snippet([]byte("abcdef"), 3))
}
