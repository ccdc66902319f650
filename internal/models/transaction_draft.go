package models

import (
	"time"

	"fjacquet/speech-expense/internal/parsererror"

	"github.com/shopspring/decimal"
)

// DateFormat is the layout used for transaction dates.
const DateFormat = "2006-01-02"

// TransactionDraft is what a parsed transcript would become once posted
// against an account. Drafts are only printed, never stored.
type TransactionDraft struct {
	AccountID     string          `json:"account_id" yaml:"account_id" csv:"account_id"`
	CategoryID    string          `json:"category_id" yaml:"category_id" csv:"category_id"`
	SubcategoryID string          `json:"subcategory_id,omitempty" yaml:"subcategory_id,omitempty" csv:"subcategory_id"`
	Amount        decimal.Decimal `json:"amount" yaml:"amount" csv:"amount"`
	Description   string          `json:"description" yaml:"description" csv:"description"`
	Date          string          `json:"date" yaml:"date" csv:"date"`
}

// NewTransactionDraft maps a parse result onto a draft dated on the given day.
func NewTransactionDraft(accountID string, parsed ParsedExpense, date time.Time) TransactionDraft {
	draft := TransactionDraft{
		AccountID:     accountID,
		CategoryID:    parsed.CategoryID,
		SubcategoryID: parsed.SubcategoryID,
		Description:   parsed.Description,
		Date:          date.Format(DateFormat),
	}
	if parsed.Amount != nil {
		draft.Amount = decimal.NewFromFloat(*parsed.Amount).Round(2)
	}
	return draft
}

// Validate checks the fields a transaction cannot be recorded without.
func (d TransactionDraft) Validate() error {
	switch {
	case d.AccountID == "":
		return &parsererror.ValidationError{Subject: "transaction draft", Reason: "account_id is required"}
	case d.CategoryID == "":
		return &parsererror.ValidationError{Subject: "transaction draft", Reason: "category_id is required"}
	case !d.Amount.IsPositive():
		return &parsererror.ValidationError{Subject: "transaction draft", Reason: "amount must be positive"}
	}
	if _, err := time.Parse(DateFormat, d.Date); err != nil {
		return &parsererror.ValidationError{Subject: "transaction draft", Reason: "date must be YYYY-MM-DD", Err: err}
	}
	return nil
}
