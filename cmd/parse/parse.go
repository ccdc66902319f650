// Package parse handles the single-transcript command
package parse

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"fjacquet/speech-expense/cmd/root"
	"fjacquet/speech-expense/internal/container"
	"fjacquet/speech-expense/internal/currencyutils"
	"fjacquet/speech-expense/internal/logging"
	"fjacquet/speech-expense/internal/models"
	"fjacquet/speech-expense/internal/suggest"
	"fjacquet/speech-expense/internal/validation"

	"github.com/spf13/cobra"
)

// Options are the inputs of one parse run.
type Options struct {
	AccountID string
	Amount    string
	Date      string
	Format    string
	Now       time.Time
}

// Output is what the command prints in JSON format.
type Output struct {
	Result      models.ParsedExpense     `json:"result"`
	Draft       *models.TransactionDraft `json:"draft,omitempty"`
	DraftError  string                   `json:"draftError,omitempty"`
	Suggestions []suggest.Suggestion     `json:"suggestions,omitempty"`
}

var opts Options

// Cmd represents the parse command
var Cmd = &cobra.Command{
	Use:   "parse <transcript...>",
	Short: "Parse one spoken expense",
	Long: `Parse one speech transcript into an amount and a category.

Example:
  speech-expense parse "paid 50 and got 10 back for groceries"
  speech-expense parse --account acc-1 --format json twenty five dollars for coffee`,
	Args: cobra.MinimumNArgs(1),
	RunE: parseFunc,
}

func init() {
	Cmd.Flags().StringVarP(&opts.AccountID, "account", "a", "", "Account id for the transaction draft (default: account.default_id)")
	Cmd.Flags().StringVar(&opts.Amount, "amount", "", "Amount typed by the user, replacing the one heard")
	Cmd.Flags().StringVarP(&opts.Date, "date", "d", "", "Transaction date YYYY-MM-DD (default: today)")
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", validation.FormatText, "Output format (text, json)")
}

func parseFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	run := opts
	run.Now = time.Now()
	return Run(c, strings.Join(args, " "), run, cmd.OutOrStdout())
}

// Run parses sentence and writes the result to out.
func Run(c *container.Container, sentence string, o Options, out io.Writer) error {
	if o.Format == "" {
		o.Format = validation.FormatText
	}
	if err := validation.IsValidOutputFormat(o.Format, validation.FormatText, validation.FormatJSON); err != nil {
		return err
	}

	logger := c.GetLogger().WithField(logging.FieldOperation, "parse")
	result, err := Build(c, sentence, o)
	if err != nil {
		return err
	}
	logger.Info("Parsed transcript",
		logging.Field{Key: logging.FieldCategory, Value: result.Result.CategoryID},
		logging.Field{Key: logging.FieldSubcategory, Value: result.Result.SubcategoryID})

	if o.Format == validation.FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return writeText(c, result, out)
}

// Build parses sentence and derives the draft and suggestions.
func Build(c *container.Container, sentence string, o Options) (Output, error) {
	parsed := c.Parse(sentence)

	if strings.TrimSpace(o.Amount) != "" {
		amount, err := currencyutils.ParseAmount(o.Amount)
		if err != nil {
			return Output{}, err
		}
		v, _ := amount.Float64()
		parsed = overrideAmount(parsed, v)
	}

	result := Output{Result: parsed}

	if s := c.GetSuggester(); s != nil && !parsed.IsCategorized() {
		result.Suggestions = s.Suggest(sentence)
	}

	accountID := o.AccountID
	if accountID == "" {
		accountID = c.GetConfig().Account.DefaultID
	}
	if accountID != "" {
		date, err := validation.ParseDate(o.Date, o.Now)
		if err != nil {
			return Output{}, err
		}
		draft := models.NewTransactionDraft(accountID, parsed, date)
		result.Draft = &draft
		if err := draft.Validate(); err != nil {
			result.DraftError = err.Error()
		}
	}
	return result, nil
}

// overrideAmount replaces the heard amount with a typed one. The amount note
// follows the new value and the heard value is kept as heard_amount.
func overrideAmount(parsed models.ParsedExpense, amount float64) models.ParsedExpense {
	notes := make([]string, 0, len(parsed.Notes)+2)
	for _, n := range parsed.Notes {
		if !strings.HasPrefix(n, amountNote) {
			notes = append(notes, n)
		}
	}
	notes = append(notes, amountNote+formatFloat(amount))
	if parsed.Amount != nil {
		notes = append(notes, heardAmountNote+formatFloat(*parsed.Amount))
	}
	parsed.Amount = &amount
	parsed.Notes = notes
	return parsed
}

const (
	amountNote      = "amount="
	heardAmountNote = "heard_amount="
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeText(c *container.Container, result Output, out io.Writer) error {
	index := c.GetIndex()
	currency := c.GetConfig().Currency.Code
	parsed := result.Result

	var b strings.Builder
	fmt.Fprintf(&b, "Description: %s\n", parsed.Description)
	if parsed.HasAmount() {
		fmt.Fprintf(&b, "Amount:      %s\n", currencyutils.FormatAmount(currencyutils.FromFloat(*parsed.Amount), currency))
	} else {
		b.WriteString("Amount:      -\n")
	}
	fmt.Fprintf(&b, "Category:    %s\n", label(index.NameOf(parsed.CategoryID), parsed.CategoryID))
	fmt.Fprintf(&b, "Subcategory: %s\n", label(index.NameOf(parsed.SubcategoryID), parsed.SubcategoryID))
	if len(parsed.Notes) > 0 {
		fmt.Fprintf(&b, "Notes:       %s\n", strings.Join(parsed.Notes, ", "))
	}

	if len(result.Suggestions) > 0 {
		names := make([]string, 0, len(result.Suggestions))
		for _, s := range result.Suggestions {
			names = append(names, s.Name)
		}
		fmt.Fprintf(&b, "Did you mean: %s\n", strings.Join(names, ", "))
	}

	if d := result.Draft; d != nil {
		fmt.Fprintf(&b, "Draft:       account=%s date=%s amount=%s\n", d.AccountID, d.Date, currencyutils.FormatAmount(d.Amount, currency))
		if result.DraftError != "" {
			fmt.Fprintf(&b, "Draft incomplete: %s\n", result.DraftError)
		}
	}

	_, err := io.WriteString(out, b.String())
	return err
}

func label(name, id string) string {
	if id == "" {
		return "-"
	}
	if name == "" {
		return id
	}
	return fmt.Sprintf("%s (%s)", name, id)
}
