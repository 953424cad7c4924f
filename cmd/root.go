// Package cmd provides CLI commands for lom.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tu-graz-library/invenio-records-lom-sub000/config"
)

var (
	configFile string
	cfg        *config.Config
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "lom",
	Short: "Manage Learning Object Metadata records",
	Long: `lom builds, validates and exports Learning Object Metadata (LOM) records.

Records are JSON envelopes whose metadata key holds the LOM categories.
They can be exported to DataCite, Dublin Core, OAI-PMH LOM XML, CSL JSON,
formatted citations and the landing page view.

Settings come from an embedded default configuration, an optional YAML file
(--config) and LOM_* environment variables. A .env file in the working
directory is loaded first.

Examples:
  lom export datacite -i record.json --pretty
  lom export citation -i record.json --style apa --locale de-DE
  lom validate -i record.json
  lom classify -i record.json --oefos 207413 --lang de
  lom create --title "Satellite Orbits" --resource-type upload
  lom publish -i draft.json
  lom relations --id 5f0c... --kind haspart`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		setupLogger()

		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	setupLogger()
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file (YAML)")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(relationsCmd)
}
