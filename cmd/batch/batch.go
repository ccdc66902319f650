// Package batch handles batch parsing of transcript files
package batch

import (
	"context"
	"fmt"
	"io"

	"fjacquet/speech-expense/cmd/root"
	"fjacquet/speech-expense/internal/batch"
	"fjacquet/speech-expense/internal/common"
	"fjacquet/speech-expense/internal/container"
	"fjacquet/speech-expense/internal/logging"
	"fjacquet/speech-expense/internal/validation"

	"github.com/spf13/cobra"
)

// Options are the inputs of one batch run.
type Options struct {
	Input  string
	Output string
}

var opts Options

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch parse transcripts from a CSV file",
	Long: `Batch parse every transcript of a CSV file and write one result row per input row.

The input needs a "transcript" column; "id" and "account_id" columns are optional.
Rows keep their input order. Without --output the results are written to stdout.

Example:
  speech-expense batch -i transcripts.csv -o expenses.csv`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Input CSV file with transcripts")
	Cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output CSV file (default: stdout)")
	_ = Cmd.MarkFlagRequired("input")
}

func batchFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	summary, err := Run(cmd.Context(), c, opts, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	root.Log.Info(fmt.Sprintf("Batch processing completed. %d of %d transcripts categorized.", summary.Categorized, summary.Total))
	return nil
}

// Run parses every transcript of opts.Input and writes the results to
// opts.Output, or to out when no output file is given.
func Run(ctx context.Context, c *container.Container, o Options, out io.Writer) (batch.Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validation.IsValidInputFile(o.Input); err != nil {
		return batch.Summary{}, err
	}

	cfg := c.GetConfig()
	logger := c.GetLogger().WithFields(
		logging.Field{Key: logging.FieldOperation, Value: "batch"},
		logging.Field{Key: logging.FieldInputFile, Value: o.Input})
	delimiter := cfg.Delimiter()

	records, err := common.ReadTranscripts(o.Input, delimiter, logger)
	if err != nil {
		return batch.Summary{}, err
	}
	if cfg.Account.DefaultID != "" {
		for i := range records {
			if records[i].AccountID == "" {
				records[i].AccountID = cfg.Account.DefaultID
			}
		}
	}

	results, err := c.GetProcessor().Process(ctx, records)
	if err != nil {
		return batch.Summary{}, fmt.Errorf("error processing transcripts: %w", err)
	}

	if o.Output == "" {
		if err := common.WriteCSV(out, results, delimiter); err != nil {
			return batch.Summary{}, err
		}
	} else if err := common.WriteResults(results, o.Output, delimiter, logger); err != nil {
		return batch.Summary{}, err
	}

	summary := batch.Summarize(results)
	for _, cc := range summary.ByCategory {
		logger.Debug("Category total",
			logging.Field{Key: logging.FieldCategory, Value: cc.CategoryID},
			logging.Field{Key: logging.FieldCount, Value: cc.Count})
	}
	return summary, nil
}
