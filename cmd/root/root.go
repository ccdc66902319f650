// Package root contains the root command for the application
package root

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/speech-expense/internal/config"
	"fjacquet/speech-expense/internal/container"
	"fjacquet/speech-expense/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to all commands
type CommonFlags struct {
	ConfigFile     string
	LogLevel       string
	CategoriesFile string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.NewLogrusAdapter("info", "text")

	// AppContainer is built once per run by the persistent pre-run hook
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "speech-expense",
		Short: "A CLI tool that turns spoken expense notes into categorized expenses.",
		Long: `speech-expense parses speech transcripts such as "paid 50 and got 10 back for groceries"
into an amount and a category from your category list.

It works offline and deterministically: the same transcript and categories always give the
same result.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to speech-expense!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := Bootstrap(SharedFlags)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				if err := AppContainer.Close(); err != nil {
					Log.WithError(err).Warn("Failed to close container")
				}
			}
		},
		SilenceUsage: true,
	}

	// SharedFlags holds the values of the persistent flags
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: $HOME/.speech-expense/config.yaml)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.CategoriesFile, "categories", "", "Categories file (YAML or JSON)")
}

// Bootstrap loads configuration, applies flag overrides and builds the
// application container.
func Bootstrap(flags CommonFlags) (*container.Container, error) {
	config.LoadEnv()

	cfg, err := config.LoadConfig(flags.ConfigFile)
	if err != nil {
		return nil, err
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = strings.ToLower(flags.LogLevel)
	}
	if flags.CategoriesFile != "" {
		cfg.Categories.File = flags.CategoriesFile
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}

	AppContainer = c
	Log = c.GetLogger()
	return c, nil
}

// GetContainer returns the container built by Bootstrap.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, errors.New("application container is not initialized")
	}
	return AppContainer, nil
}
