// Package main provides the requestwiki binary entry point. It wraps the
// form engine as a standalone tool: rendering the intake and review
// forms, submitting requests interactively, exporting descriptors, and
// running a development preview server.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wikiforge/requestwiki/pkg/config"
)

const (
	Version = "0.1.0"
	appName = "requestwiki"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Wiki request intake and review forms",
		Long: `Requestwiki builds, renders, and processes the forms a wiki farm
uses to take in new wiki requests and review them.

Forms are described as field descriptors; the same descriptor drives
HTML rendering, terminal prompting, and OpenAPI export.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	cmd.AddCommand(configCmd(flags))
	cmd.AddCommand(renderCmd(flags))
	cmd.AddCommand(exportCmd(flags))
	cmd.AddCommand(newCmd(flags))
	cmd.AddCommand(serveCmd(flags))

	return cmd
}

// loadConfig reads the configured file, or falls back to defaults when
// no path was given.
func (f *rootFlags) loadConfig() (*config.Config, error) {
	if f.configPath == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadFromFile(f.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", f.configPath, err)
	}
	return cfg, nil
}

func (f *rootFlags) logger() zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(f.logLevel) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
