// Package cmd provides the CLI commands for i18n-ecma.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/iancoleman/orderedmap"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thirteen37/i18n-ecma/internal/codec"
	"github.com/thirteen37/i18n-ecma/internal/format"
	"github.com/thirteen37/i18n-ecma/internal/project"
)

var (
	rootDir  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "i18n-ecma",
	Short: "Read and write locale files, including JavaScript and TypeScript modules",
	Long: `i18n-ecma loads locale files into key trees and writes them back.

JSON, JSONC, TOML and INI files are handled directly. JavaScript and
TypeScript locale modules are executed to be read, through ts-node or an
in-process sandbox, and can only be written when the project provides a
custom serializer at .vscode/i18n-ally-custom-ecmascript-parser.js.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd.ErrOrStderr(), logLevel)
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "C", ".", "Project root directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to the configured level")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(parsersCmd)
	rootCmd.AddCommand(configCmd)
}

// setupLogging sends human-readable logs to w. An empty level means info.
func setupLogging(w io.Writer, level string) error {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).With().Timestamp().Logger()
	return setLevel(level)
}

func setLevel(level string) error {
	if level == "" {
		level = zerolog.LevelInfoValue
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// openProject opens the project at --root. The configured log level
// applies unless --log-level was given.
func openProject() (*project.Project, error) {
	proj, err := project.Open(rootDir, log.Logger)
	if err != nil {
		return nil, err
	}
	if logLevel == "" && proj.Config.LogLevel != "" {
		if err := setLevel(proj.Config.LogLevel); err != nil {
			return nil, err
		}
	}
	return proj, nil
}

// absPath resolves a file argument against the working directory.
func absPath(file string) (string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", file, err)
	}
	return abs, nil
}

// printTree writes t as JSON using the project's indentation.
func printTree(cmd *cobra.Command, proj *project.Project, t *orderedmap.OrderedMap) error {
	opts := format.Options{Indent: proj.Config.Indent, Tab: proj.Config.Tab}
	text, err := codec.StableSerialize(t, codec.Options{Indent: opts.IndentUnit()})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

// sortFlag returns a pointer to the --sort value when it was given, nil
// otherwise.
func sortFlag(cmd *cobra.Command, value bool) *bool {
	if !cmd.Flags().Changed("sort") {
		return nil
	}
	return &value
}
