package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonAdapter returns an adapter writing JSON lines to buf.
func jsonAdapter(t *testing.T, level string, buf *bytes.Buffer) Logger {
	t.Helper()
	logger := NewLogrusAdapter(level, "json")
	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	adapter.SetOutput(buf)
	return adapter
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		lines = append(lines, m)
	}
	return lines
}

func TestNewLogrusAdapter_LevelAndFormatIgnoreCase(t *testing.T) {
	tests := []struct {
		level  string
		format string
		want   logrus.Level
		json   bool
	}{
		{"DEBUG", "JSON", logrus.DebugLevel, true},
		{"Warn", "Text", logrus.WarnLevel, false},
		{"error", "json", logrus.ErrorLevel, true},
		{"chatty", "yaml", logrus.InfoLevel, false},
		{"", "", logrus.InfoLevel, false},
	}

	for _, tc := range tests {
		t.Run(tc.level+"/"+tc.format, func(t *testing.T) {
			adapter, ok := NewLogrusAdapter(tc.level, tc.format).(*LogrusAdapter)
			require.True(t, ok)
			assert.Equal(t, tc.want, adapter.logger.GetLevel())
			_, isJSON := adapter.logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tc.json, isJSON)
		})
	}
}

func TestNewLogrusAdapterFromLogger_NilGetsDefault(t *testing.T) {
	adapter, ok := NewLogrusAdapterFromLogger(nil).(*LogrusAdapter)
	require.True(t, ok)
	assert.NotNil(t, adapter.logger)
	assert.NotNil(t, adapter.entry)
}

func TestNewDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	adapter, ok := logger.(*LogrusAdapter)
	require.True(t, ok)
	assert.Equal(t, logrus.PanicLevel, adapter.logger.GetLevel())

	assert.NotPanics(t, func() {
		logger.WithError(errors.New("ignored")).Error("Failed to parse CSV file")
		logger.Debug("Matched subcategory", Field{Key: FieldScore, Value: 0.9})
	})
}

func TestLogrusAdapter_SetOutputFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := jsonAdapter(t, "info", &buf)

	logger.Debug("Classified amounts")
	logger.Info("Reading CSV file", Field{Key: FieldFile, Value: "in.csv"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "Reading CSV file", lines[0]["msg"])
	assert.Equal(t, "in.csv", lines[0][FieldFile])
}

func TestLogrusAdapter_ParserFields(t *testing.T) {
	var buf bytes.Buffer
	logger := jsonAdapter(t, "debug", &buf)

	logger.WithField(FieldTranscript, "paid 3 for a coffee").Debug("Matched subcategory",
		Field{Key: FieldSubcategory, Value: "sub-coffee"},
		Field{Key: FieldCategory, Value: "cat-food-dining"},
		Field{Key: FieldScore, Value: 0.93},
		Field{Key: FieldThreshold, Value: 0.5})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	line := lines[0]
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "paid 3 for a coffee", line[FieldTranscript])
	assert.Equal(t, "sub-coffee", line[FieldSubcategory])
	assert.Equal(t, "cat-food-dining", line[FieldCategory])
	assert.InDelta(t, 0.93, line[FieldScore], 1e-9)
	assert.InDelta(t, 0.5, line[FieldThreshold], 1e-9)
}

func TestLogrusAdapter_DerivedLoggersKeepParentClean(t *testing.T) {
	var buf bytes.Buffer
	base := jsonAdapter(t, "info", &buf)

	batch := base.WithFields(Field{Key: FieldOperation, Value: "batch"}, Field{Key: FieldCount, Value: 3})
	batch.WithError(errors.New("disk full")).Error("Failed to create CSV file")
	base.Info("Loaded categories")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "batch", lines[0][FieldOperation])
	assert.EqualValues(t, 3, lines[0][FieldCount])
	assert.Equal(t, "disk full", lines[0][logrus.ErrorKey])
	assert.NotContains(t, lines[1], FieldOperation)
	assert.NotContains(t, lines[1], logrus.ErrorKey)
}

func TestLogrusAdapter_ImplementsInterface(t *testing.T) {
	var _ Logger = (*LogrusAdapter)(nil)
}
