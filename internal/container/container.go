// Package container provides dependency injection for the speech-expense
// application. It wires configuration, logging, the category store, the
// parser and its helpers once so that every command shares them.
package container

import (
	"errors"
	"fmt"

	"fjacquet/speech-expense/internal/batch"
	"fjacquet/speech-expense/internal/config"
	"fjacquet/speech-expense/internal/logging"
	"fjacquet/speech-expense/internal/models"
	"fjacquet/speech-expense/internal/speechparser"
	"fjacquet/speech-expense/internal/store"
	"fjacquet/speech-expense/internal/suggest"
)

// Container holds all application dependencies. It is immutable after
// creation; dependencies are reached through getters.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      store.Loader
	categories []models.CategoryRecord
	index      speechparser.CategoryIndex
	parser     *speechparser.Parser
	suggester  *suggest.Suggester
	processor  *batch.Processor
}

// NewContainer creates and wires all application dependencies from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	categoryStore := store.NewCategoryStore(cfg.Categories.File, cfg.Categories.IncludeHidden, logger)
	return NewContainerWithLoader(cfg, categoryStore, logger)
}

// NewContainerWithLoader wires the container around an existing category
// loader and logger.
func NewContainerWithLoader(cfg *config.Config, loader store.Loader, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("configuration cannot be nil")
	}
	if loader == nil {
		return nil, errors.New("category loader cannot be nil")
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	records, err := loader.LoadCategories()
	if err != nil {
		return nil, fmt.Errorf("error loading categories: %w", err)
	}
	index := speechparser.FlattenCategories(models.ToNodes(records))

	parser := speechparser.NewParser(cfg.Thresholds(), logger)

	var suggester *suggest.Suggester
	if cfg.Suggestions.Enabled {
		suggester = suggest.NewSuggester(index, cfg.Suggestions.Limit)
	}

	processor := batch.NewProcessor(parser, index, cfg.Batch.Workers, logger)

	logger.Debug("Container initialized successfully",
		logging.Field{Key: "categories", Value: len(index.Categories)},
		logging.Field{Key: "subcategories", Value: len(index.Subcategories)},
		logging.Field{Key: "suggestions_enabled", Value: suggester != nil})

	return &Container{
		logger:     logger,
		config:     cfg,
		store:      loader,
		categories: records,
		index:      index,
		parser:     parser,
		suggester:  suggester,
		processor:  processor,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the category loader the container was built with.
func (c *Container) GetStore() store.Loader {
	return c.store
}

// GetCategories returns a copy of the loaded category records.
func (c *Container) GetCategories() []models.CategoryRecord {
	out := make([]models.CategoryRecord, len(c.categories))
	copy(out, c.categories)
	return out
}

// GetIndex returns the flattened category index.
func (c *Container) GetIndex() speechparser.CategoryIndex {
	return c.index
}

// GetParser returns the configured speech parser.
func (c *Container) GetParser() *speechparser.Parser {
	return c.parser
}

// GetSuggester returns the suggester, or nil when suggestions are disabled.
func (c *Container) GetSuggester() *suggest.Suggester {
	return c.suggester
}

// GetProcessor returns the batch processor.
func (c *Container) GetProcessor() *batch.Processor {
	return c.processor
}

// Parse parses one transcript against the loaded categories.
func (c *Container) Parse(sentence string) models.ParsedExpense {
	return c.parser.ParseIndexed(sentence, c.index)
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
