package validation_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/speech-expense/internal/parsererror"
	"fjacquet/speech-expense/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidInputFile(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "in.csv")
	require.NoError(t, os.WriteFile(testFile, []byte("transcript\n"), 0600))

	tests := []struct {
		name        string
		path        string
		errContains string
	}{
		{name: "regular file", path: testFile},
		{name: "non-existent path", path: filepath.Join(tmpDir, "missing.csv"), errContains: "path does not exist"},
		{name: "directory", path: tmpDir, errContains: "not a regular file"},
		{name: "empty path", path: " ", errContains: "path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.IsValidInputFile(tt.path)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestIsValidOutputFormat(t *testing.T) {
	assert.NoError(t, validation.IsValidOutputFormat("json", validation.FormatText, validation.FormatJSON))
	assert.NoError(t, validation.IsValidOutputFormat("text", validation.FormatText, validation.FormatJSON))

	err := validation.IsValidOutputFormat("xml", validation.FormatText, validation.FormatJSON)
	var verr *parsererror.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "output format", verr.Subject)
	assert.Contains(t, err.Error(), "'text', 'json'")
}

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	d, err := validation.ParseDate("", now)
	require.NoError(t, err)
	assert.Equal(t, now, d)

	d, err = validation.ParseDate("2025-12-31", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), d)

	_, err = validation.ParseDate("31.12.2025", now)
	var verr *parsererror.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "date", verr.Subject)
}
