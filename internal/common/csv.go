// Package common provides CSV input and output shared by the batch command.
package common

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fjacquet/speech-expense/internal/logging"
	"fjacquet/speech-expense/internal/models"
	"fjacquet/speech-expense/internal/parsererror"

	"github.com/gocarina/gocsv"
)

// DefaultDelimiter is used when no delimiter is configured.
const DefaultDelimiter = ','

// TranscriptColumn must appear in the header of every transcript file.
const TranscriptColumn = "transcript"

const snippetLength = 120

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string, delimiter rune, logger logging.Logger) ([]TCSVRow, error) {
	logger = orDiscard(logger)
	data, err := readCSVData(filePath, delimiter, logger)
	if err != nil {
		return nil, err
	}
	return decodeRows[TCSVRow](data, delimiter, logger)
}

// ReadTranscripts reads a transcript file. Rows without an id get their
// 1-based row number as id.
func ReadTranscripts(filePath string, delimiter rune, logger logging.Logger) ([]models.TranscriptRecord, error) {
	logger = orDiscard(logger)
	data, err := readCSVData(filePath, delimiter, logger)
	if err != nil {
		return nil, err
	}
	if err := checkHeader(data, delimiter); err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:             filePath,
			ExpectedFormat:       "CSV with a transcript column",
			ActualContentSnippet: parsererror.Snippet(data, snippetLength),
			Msg:                  "missing transcript column",
			Err:                  err,
		}
	}

	records, err := decodeRows[models.TranscriptRecord](data, delimiter, logger)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].ID = strings.TrimSpace(records[i].ID)
		records[i].AccountID = strings.TrimSpace(records[i].AccountID)
		if records[i].ID == "" {
			records[i].ID = strconv.Itoa(i + 1)
		}
	}
	return records, nil
}

// utf8BOM is prepended by many spreadsheet exports.
var utf8BOM = []byte("\ufeff")

// readCSVData reads a whole CSV file without its byte order mark.
func readCSVData(filePath string, delimiter rune, logger logging.Logger) ([]byte, error) {
	logger.Info("Reading CSV file",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldDelimiter, Value: string(delimiter)})

	data, err := os.ReadFile(filePath) // #nosec G304 -- path chosen by the CLI user
	if err != nil {
		logger.WithError(err).Error("Failed to open CSV file")
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	return bytes.TrimPrefix(data, utf8BOM), nil
}

func decodeRows[TCSVRow any](data []byte, delimiter rune, logger logging.Logger) ([]TCSVRow, error) {
	rows, err := unmarshal[TCSVRow](bytes.NewReader(data), delimiter)
	if err != nil {
		logger.WithError(err).Error("Failed to parse CSV file")
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	logger.Info("Successfully read CSV data", logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// WriteCSV marshals rows to w with the given delimiter.
func WriteCSV[TCSVRow any](w io.Writer, rows []TCSVRow, delimiter rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteResults writes batch results to csvFile, creating its directory.
func WriteResults(results []models.ResultRecord, csvFile string, delimiter rune, logger logging.Logger) error {
	if results == nil {
		return errors.New("cannot write nil results to CSV")
	}
	logger = orDiscard(logger)
	logger.Info("Writing results to CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(results)})

	if err := os.MkdirAll(filepath.Dir(csvFile), models.PermissionDirectory); err != nil {
		logger.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.OpenFile(csvFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionOutputFile) // #nosec G304
	if err != nil {
		logger.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteCSV(file, results, delimiter); err != nil {
		logger.WithError(err).Error("Failed to marshal results to CSV")
		return err
	}
	return nil
}

func unmarshal[TCSVRow any](r io.Reader, delimiter rune) ([]TCSVRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func checkHeader(data []byte, delimiter rune) error {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty file")
		}
		return err
	}
	for _, column := range header {
		if strings.TrimSpace(column) == TranscriptColumn {
			return nil
		}
	}
	return fmt.Errorf("header %q has no %s column", strings.Join(header, string(delimiter)), TranscriptColumn)
}

func orDiscard(logger logging.Logger) logging.Logger {
	if logger == nil {
		return logging.NewDiscardLogger()
	}
	return logger
}
