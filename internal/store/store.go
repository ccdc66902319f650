// Package store loads the category lists the parser matches against.
package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/speech-expense/internal/logging"
	"fjacquet/speech-expense/internal/models"
	"fjacquet/speech-expense/internal/parsererror"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed default_categories.yaml
var defaultCategoriesYAML []byte

// DefaultCategoriesFile is looked up when no file is configured.
const DefaultCategoriesFile = "categories.yaml"

const expectedFormat = "a list of categories or a mapping with a 'categories' list"

var categoryNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:speech-expense:categories"))

// Loader provides category records.
type Loader interface {
	LoadCategories() ([]models.CategoryRecord, error)
}

// CategoryStore manages loading and saving of category files
type CategoryStore struct {
	CategoriesFile string
	IncludeHidden  bool
	logger         logging.Logger
}

// NewCategoryStore creates a new store for category data
func NewCategoryStore(categoriesFile string, includeHidden bool, logger logging.Logger) *CategoryStore {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &CategoryStore{
		CategoriesFile: categoriesFile,
		IncludeHidden:  includeHidden,
		logger:         logger,
	}
}

// FindConfigFile looks for a file in the standard locations
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".speech-expense", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".speech-expense", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadCategories reads the configured category file. A missing or empty file
// yields the built-in defaults. Hidden entries are dropped unless
// IncludeHidden is set, and the result is ordered by position then id.
func (s *CategoryStore) LoadCategories() ([]models.CategoryRecord, error) {
	filename := s.CategoriesFile
	if filename == "" {
		filename = DefaultCategoriesFile
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		s.logger.Warn("Categories file not found, using built-in categories",
			logging.Field{Key: logging.FieldFile, Value: filename})
		return s.prepare(DefaultCategories()), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	records, err := decodeCategories(filePath, data)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		s.logger.Warn("Categories file is empty, using built-in categories",
			logging.Field{Key: logging.FieldFile, Value: filePath})
		return s.prepare(DefaultCategories()), nil
	}

	s.logger.Debug("Loaded categories",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(records)})
	return s.prepare(records), nil
}

// SaveCategories writes records as YAML, creating the parent directory.
func (s *CategoryStore) SaveCategories(path string, records []models.CategoryRecord) error {
	if path == "" {
		path = s.CategoriesFile
	}
	if path == "" {
		path = DefaultCategoriesFile
	}
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(models.CategoriesConfig{Categories: records})
	if err != nil {
		return fmt.Errorf("error marshaling categories: %w", err)
	}
	if err := os.WriteFile(path, data, models.PermissionConfigFile); err != nil {
		return fmt.Errorf("error writing categories: %w", err)
	}

	s.logger.Debug("Saved categories",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(records)})
	return nil
}

// DefaultCategories returns the built-in expense categories.
func DefaultCategories() []models.CategoryRecord {
	var cfg models.CategoriesConfig
	if err := yaml.Unmarshal(defaultCategoriesYAML, &cfg); err != nil {
		panic(fmt.Sprintf("embedded default categories are invalid: %v", err))
	}
	return cfg.Categories
}

// decodeCategories accepts either a bare list or a {categories: [...]}
// mapping, as JSON for .json files and YAML otherwise.
func decodeCategories(path string, data []byte) ([]models.CategoryRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return decodeJSON(path, data)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, invalidFormat(path, data, "malformed YAML", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var records []models.CategoryRecord
		if err := root.Decode(&records); err != nil {
			return nil, invalidFormat(path, data, "malformed category list", err)
		}
		return records, nil
	case yaml.MappingNode:
		var cfg models.CategoriesConfig
		if err := root.Decode(&cfg); err != nil {
			return nil, invalidFormat(path, data, "malformed categories mapping", err)
		}
		return cfg.Categories, nil
	default:
		return nil, invalidFormat(path, data, "unrecognized document", nil)
	}
}

func decodeJSON(path string, data []byte) ([]models.CategoryRecord, error) {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "":
		return nil, nil
	case strings.HasPrefix(trimmed, "["):
		var records []models.CategoryRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, invalidFormat(path, data, "malformed category list", err)
		}
		return records, nil
	case strings.HasPrefix(trimmed, "{"):
		var cfg models.CategoriesConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, invalidFormat(path, data, "malformed categories object", err)
		}
		return cfg.Categories, nil
	default:
		return nil, invalidFormat(path, data, "unrecognized document", nil)
	}
}

func invalidFormat(path string, data []byte, msg string, err error) error {
	return &parsererror.InvalidFormatError{
		FilePath:             path,
		ExpectedFormat:       expectedFormat,
		ActualContentSnippet: parsererror.Snippet(data, 40),
		Msg:                  msg,
		Err:                  err,
	}
}

// prepare fills missing ids, filters hidden entries and orders the records.
func (s *CategoryStore) prepare(records []models.CategoryRecord) []models.CategoryRecord {
	out := make([]models.CategoryRecord, 0, len(records))
	for _, r := range records {
		if !s.IncludeHidden && !r.IsVisible() {
			continue
		}
		out = append(out, withIDs(r))
	}
	SortRecords(out)
	return out
}

// withIDs assigns a name-derived id to a record and its subcategories when
// the file left them out. The same names always get the same ids.
func withIDs(r models.CategoryRecord) models.CategoryRecord {
	if r.ID == "" {
		parent := ""
		if r.ParentID != nil {
			parent = *r.ParentID
		}
		r.ID = deriveID(parent, r.Name)
	}
	if r.Subcategories != nil {
		subs := make([]models.Subcategory, len(r.Subcategories))
		for i, sub := range r.Subcategories {
			if sub.ID == "" {
				sub.ID = deriveID(r.ID, sub.Name)
			}
			subs[i] = sub
		}
		r.Subcategories = subs
	}
	return r
}

func deriveID(parentID, name string) string {
	return uuid.NewSHA1(categoryNamespace, []byte(parentID+"/"+strings.ToLower(strings.TrimSpace(name)))).String()
}

// SortRecords orders records by position, entries without one first, then by id.
func SortRecords(records []models.CategoryRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		pi, pj := records[i].Position, records[j].Position
		switch {
		case pi == nil && pj != nil:
			return true
		case pi != nil && pj == nil:
			return false
		case pi != nil && pj != nil && *pi != *pj:
			return *pi < *pj
		}
		return records[i].ID < records[j].ID
	})
}
