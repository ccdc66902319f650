package models

import (
	"strconv"
	"strings"
)

// TranscriptRecord is one input row of a batch file.
type TranscriptRecord struct {
	ID         string `csv:"id"`
	Transcript string `csv:"transcript"`
	AccountID  string `csv:"account_id"`
}

// ResultRecord is one output row of a batch file.
type ResultRecord struct {
	ID            string `csv:"id"`
	AccountID     string `csv:"account_id"`
	Transcript    string `csv:"transcript"`
	Description   string `csv:"description"`
	Amount        string `csv:"amount"`
	CategoryID    string `csv:"category_id"`
	SubcategoryID string `csv:"subcategory_id"`
	Notes         string `csv:"notes"`
}

// NoteSeparator joins notes inside the single notes column.
const NoteSeparator = ";"

// NewResultRecord flattens a parsed expense into a CSV row.
func NewResultRecord(in TranscriptRecord, parsed ParsedExpense) ResultRecord {
	out := ResultRecord{
		ID:            in.ID,
		AccountID:     in.AccountID,
		Transcript:    in.Transcript,
		Description:   parsed.Description,
		CategoryID:    parsed.CategoryID,
		SubcategoryID: parsed.SubcategoryID,
		Notes:         strings.Join(parsed.Notes, NoteSeparator),
	}
	if parsed.Amount != nil {
		out.Amount = strconv.FormatFloat(*parsed.Amount, 'f', -1, 64)
	}
	return out
}
