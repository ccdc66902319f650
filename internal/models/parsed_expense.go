package models

// ParsedExpense is the outcome of parsing one spoken transcript. Empty ids mean
// no confident match; a nil Amount means no amount was heard.
type ParsedExpense struct {
	Description   string   `json:"description"`
	Amount        *float64 `json:"amount,omitempty"`
	CategoryID    string   `json:"categoryId,omitempty"`
	SubcategoryID string   `json:"subcategoryId,omitempty"`
	Notes         []string `json:"notes,omitempty"`
}

// HasAmount reports whether an amount was extracted.
func (p ParsedExpense) HasAmount() bool {
	return p.Amount != nil
}

// IsCategorized reports whether a category or subcategory was matched.
func (p ParsedExpense) IsCategorized() bool {
	return p.CategoryID != "" || p.SubcategoryID != ""
}
