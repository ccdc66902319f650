// Package categories handles the category listing command
package categories

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/speech-expense/cmd/root"
	"fjacquet/speech-expense/internal/container"
	"fjacquet/speech-expense/internal/logging"
	"fjacquet/speech-expense/internal/speechparser"
	"fjacquet/speech-expense/internal/store"
	"fjacquet/speech-expense/internal/validation"

	"github.com/spf13/cobra"
)

// Options are the inputs of one categories run.
type Options struct {
	Format    string
	WriteFile string
	Force     bool
}

var opts Options

// Cmd represents the categories command
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories transcripts are matched against",
	Long: `List the categories and subcategories transcripts are matched against, as the
parser sees them after loading and flattening the category file.

With --write the built-in categories are saved as a starting point for your own file.

Example:
  speech-expense categories --format json
  speech-expense categories --write ~/.speech-expense/categories.yaml`,
	RunE: categoriesFunc,
}

func init() {
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", validation.FormatText, "Output format (text, json)")
	Cmd.Flags().StringVarP(&opts.WriteFile, "write", "w", "", "Write the built-in categories to this YAML file")
	Cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite the file given to --write")
}

func categoriesFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	return Run(c, opts, cmd.OutOrStdout())
}

// Run lists the category index, or writes the built-in categories.
func Run(c *container.Container, o Options, out io.Writer) error {
	if o.WriteFile != "" {
		return writeDefaults(c.GetLogger().WithField(logging.FieldOperation, "categories"), o, out)
	}

	if o.Format == "" {
		o.Format = validation.FormatText
	}
	if err := validation.IsValidOutputFormat(o.Format, validation.FormatText, validation.FormatJSON); err != nil {
		return err
	}

	index := c.GetIndex()
	if o.Format == validation.FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(index)
	}
	_, err := io.WriteString(out, renderTree(index))
	return err
}

func writeDefaults(logger logging.Logger, o Options, out io.Writer) error {
	if _, err := os.Stat(o.WriteFile); err == nil && !o.Force {
		return fmt.Errorf("file %s already exists, use --force to overwrite", o.WriteFile)
	}

	defaults := store.DefaultCategories()
	if err := store.NewCategoryStore(o.WriteFile, false, logger).SaveCategories(o.WriteFile, defaults); err != nil {
		return err
	}
	logger.Info("Wrote built-in categories",
		logging.Field{Key: logging.FieldOutputFile, Value: o.WriteFile},
		logging.Field{Key: logging.FieldCount, Value: len(defaults)})
	_, err := fmt.Fprintf(out, "Wrote %d categories to %s\n", len(defaults), o.WriteFile)
	return err
}

// renderTree prints top-level categories with their subcategories indented.
// Subcategories whose parent is unknown are listed at the end.
func renderTree(index speechparser.CategoryIndex) string {
	children := make(map[string][]speechparser.IndexedCategory)
	known := make(map[string]bool, len(index.Categories))
	for _, c := range index.Categories {
		known[c.ID] = true
	}
	var orphans []speechparser.IndexedCategory
	for _, s := range index.Subcategories {
		if known[s.ParentID] {
			children[s.ParentID] = append(children[s.ParentID], s)
		} else {
			orphans = append(orphans, s)
		}
	}

	var b strings.Builder
	for _, c := range index.Categories {
		fmt.Fprintf(&b, "%s (%s)\n", c.Name, c.ID)
		for _, s := range children[c.ID] {
			fmt.Fprintf(&b, "  %s (%s)\n", s.Name, s.ID)
		}
	}
	for _, s := range orphans {
		fmt.Fprintf(&b, "? %s (%s) parent=%s\n", s.Name, s.ID, s.ParentID)
	}
	return b.String()
}
