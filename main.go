package main

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/speech-expense/cmd/batch"
	"fjacquet/speech-expense/cmd/categories"
	"fjacquet/speech-expense/cmd/parse"
	"fjacquet/speech-expense/cmd/root"
	"fjacquet/speech-expense/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	config.LoadEnv()

	// 2. Configure the global log level before any logger is created
	configureLogLevelDirectly()

	// 3. Initialize root command and add all subcommands
	root.Init()
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
}

// configureLogLevelDirectly sets the global logrus level from SPEECH_LOG_LEVEL
func configureLogLevelDirectly() logrus.Level {
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.GetEnv(config.EnvPrefix+"_LOG_LEVEL", "info")))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	return logLevel
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
