package common

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/speech-expense/internal/logging"
	"fjacquet/speech-expense/internal/models"
	"fjacquet/speech-expense/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadTranscripts(t *testing.T) {
	path := writeFile(t, "in.csv", `id,transcript,account_id
a1,paid 50 and got 10 back,acc-1
,twenty five dollars for coffee,
a3,,acc-2
`)

	logger := logging.NewMockLogger()
	records, err := ReadTranscripts(path, ',', logger)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, models.TranscriptRecord{ID: "a1", Transcript: "paid 50 and got 10 back", AccountID: "acc-1"}, records[0])
	assert.Equal(t, "2", records[1].ID)
	assert.Equal(t, "twenty five dollars for coffee", records[1].Transcript)
	assert.Equal(t, "", records[2].Transcript)
	assert.True(t, logger.HasEntry("INFO", "Successfully read CSV data"))
}

func TestReadTranscripts_Delimiter(t *testing.T) {
	path := writeFile(t, "in.csv", "transcript;id\nspent 12.50 on lunch;x\n")

	records, err := ReadTranscripts(path, ';', nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "x", records[0].ID)
	assert.Equal(t, "spent 12.50 on lunch", records[0].Transcript)
}

func TestReadTranscripts_ByteOrderMark(t *testing.T) {
	path := writeFile(t, "bom.csv", "\ufefftranscript,id\npaid 5 for coffee,1\n")

	logger := logging.NewMockLogger()
	records, err := ReadTranscripts(path, ',', logger)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "paid 5 for coffee", records[0].Transcript)
	assert.Len(t, logger.GetEntriesByLevel("INFO"), 2, "file is read and decoded once")
}

func TestReadCSVFile_ByteOrderMark(t *testing.T) {
	path := writeFile(t, "bom.csv", "\ufeffid,transcript\n7,fuel 60\n")

	records, err := ReadCSVFile[models.TranscriptRecord](path, ',', nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "7", records[0].ID)
}

func TestReadTranscripts_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ReadTranscripts(filepath.Join(t.TempDir(), "nope.csv"), ',', nil)
		assert.Error(t, err)
	})

	t.Run("missing transcript column", func(t *testing.T) {
		path := writeFile(t, "bad.csv", "id,text\n1,coffee\n")
		_, err := ReadTranscripts(path, ',', nil)

		var formatErr *parsererror.InvalidFormatError
		require.True(t, errors.As(err, &formatErr))
		assert.Equal(t, path, formatErr.FilePath)
		assert.Contains(t, formatErr.ActualContentSnippet, "id,text")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "empty.csv", "")
		_, err := ReadTranscripts(path, ',', nil)

		var formatErr *parsererror.InvalidFormatError
		assert.True(t, errors.As(err, &formatErr))
	})
}

func TestWriteCSV(t *testing.T) {
	amount := 4.0
	row := models.NewResultRecord(
		models.TranscriptRecord{ID: "1", Transcript: "coffee 4", AccountID: "acc"},
		models.ParsedExpense{
			Description:   "[Speech] coffee 4",
			Amount:        &amount,
			CategoryID:    "food",
			SubcategoryID: "coffee",
			Notes:         []string{"amount=4"},
		},
	)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []models.ResultRecord{row}, ';'))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id;account_id;transcript;description;amount;category_id;subcategory_id;notes", lines[0])
	assert.Equal(t, "1;acc;coffee 4;[Speech] coffee 4;4;food;coffee;amount=4", lines[1])
}

func TestWriteResults(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "out.csv")
	results := []models.ResultRecord{
		{ID: "1", Transcript: "hello", Description: "[Speech] hello"},
	}

	require.NoError(t, WriteResults(results, out, ',', logging.NewMockLogger()))

	read, err := ReadCSVFile[models.ResultRecord](out, ',', nil)
	require.NoError(t, err)
	assert.Equal(t, results, read)

	assert.Error(t, WriteResults(nil, out, ',', nil))
}
