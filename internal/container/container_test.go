package container

import (
	"errors"
	"path/filepath"
	"testing"

	"fjacquet/speech-expense/internal/config"
	"fjacquet/speech-expense/internal/logging"
	"fjacquet/speech-expense/internal/models"
	"fjacquet/speech-expense/internal/speechparser"
	"fjacquet/speech-expense/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	th := speechparser.DefaultThresholds()
	return &config.Config{
		Log: config.LogConfig{Level: "info", Format: "text"},
		CSV: config.CSVConfig{Delimiter: ","},
		Parser: config.ParserConfig{
			SubcategoryThreshold: th.SubcategoryThreshold,
			CategoryThreshold:    th.CategoryThreshold,
			AmbiguityGap:         th.AmbiguityGap,
			ProximityWindow:      th.ProximityWindow,
			DescriptionPrefix:    th.DescriptionPrefix,
		},
		Batch:       config.BatchConfig{Workers: 2},
		Suggestions: config.SuggestionsConfig{Enabled: true, Limit: 2},
		Currency:    config.CurrencyConfig{Code: "USD"},
	}
}

func mockStore() *store.MockCategoryStore {
	return &store.MockCategoryStore{Categories: []models.CategoryRecord{
		{ID: "food", Name: "Food & Dining", Subcategories: []models.Subcategory{{ID: "coffee", Name: "Coffee"}}},
		{ID: "transport", Name: "Transport", Subcategories: []models.Subcategory{{ID: "taxi", Name: "Taxi"}}},
	}}
}

func TestNewContainer_NilConfig(t *testing.T) {
	_, err := NewContainer(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration cannot be nil")

	_, err = NewContainerWithLoader(nil, mockStore(), nil)
	assert.Error(t, err)

	_, err = NewContainerWithLoader(testConfig(), nil, nil)
	assert.Error(t, err)
}

func TestNewContainerWithLoader(t *testing.T) {
	loader := mockStore()
	logger := logging.NewMockLogger()

	c, err := NewContainerWithLoader(testConfig(), loader, logger)
	require.NoError(t, err)

	assert.Equal(t, 1, loader.Calls)
	assert.Same(t, logger, c.GetLogger())
	assert.Equal(t, loader, c.GetStore())
	assert.Len(t, c.GetCategories(), 2)
	assert.Len(t, c.GetIndex().Subcategories, 2)
	assert.Equal(t, speechparser.DefaultThresholds(), c.GetParser().Thresholds())
	assert.NotNil(t, c.GetSuggester())
	assert.Equal(t, 2, c.GetProcessor().WorkerCount())
	assert.Equal(t, "USD", c.GetConfig().Currency.Code)

	parsed := c.Parse("coffee 4")
	assert.Equal(t, "coffee", parsed.SubcategoryID)
	assert.Equal(t, "food", parsed.CategoryID)

	assert.True(t, logger.HasEntry("DEBUG", "Container initialized successfully"))
	assert.NoError(t, c.Close())
}

func TestNewContainerWithLoader_SuggestionsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Suggestions.Enabled = false

	c, err := NewContainerWithLoader(cfg, mockStore(), nil)
	require.NoError(t, err)
	assert.Nil(t, c.GetSuggester())
}

func TestNewContainerWithLoader_LoadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewContainerWithLoader(testConfig(), &store.MockCategoryStore{LoadCategoriesError: boom}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "error loading categories")
}

func TestGetCategories_ReturnsCopy(t *testing.T) {
	c, err := NewContainerWithLoader(testConfig(), mockStore(), nil)
	require.NoError(t, err)

	cats := c.GetCategories()
	cats[0].Name = "changed"
	assert.Equal(t, "Food & Dining", c.GetCategories()[0].Name)
}

func TestNewContainer_DefaultCategories(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := testConfig()
	cfg.Categories.File = filepath.Join(t.TempDir(), "missing.yaml")

	c, err := NewContainer(cfg)
	require.NoError(t, err)
	assert.Len(t, c.GetIndex().Categories, len(store.DefaultCategories()))

	parsed := c.Parse("twenty five dollars for coffee")
	require.NotNil(t, parsed.Amount)
	assert.Equal(t, 25.0, *parsed.Amount)
	assert.NotEmpty(t, parsed.SubcategoryID)
}
