package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/thirteen37/i18n-ecma/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the project configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write .i18n-ecma.toml with the default settings to the project root.

Example:
  i18n-ecma config init --engine sandbox`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var (
	configForce  bool
	configEngine string
	configRunner string
)

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing file")
	configInitCmd.Flags().StringVar(&configEngine, "engine", config.EngineToolchain, "ECMAScript engine (toolchain, sandbox)")
	configInitCmd.Flags().StringVar(&configRunner, "ts-node", "", "Toolchain runner (default \"npx ts-node\")")

	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("failed to resolve project root: %w", err)
	}
	filename := filepath.Join(root, config.FileName)

	if _, err := os.Stat(filename); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", filename)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", filename, err)
	}

	cfg := config.Default()
	cfg.Parsers.Ecmascript.Engine = configEngine
	if configRunner != "" {
		cfg.Parsers.Typescript.TsNodePath = configRunner
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := cfg.Save(filename); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", filename)
	return nil
}
