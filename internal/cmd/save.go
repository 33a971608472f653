package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/thirteen37/i18n-ecma/internal/tree"
)

var saveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Write a JSON tree to a locale file",
	Long: `Read a JSON object and write it to a locale file in that file's format.

The JSON is read from stdin unless --input is given. JavaScript and
TypeScript files need a custom serializer.

Example:
  i18n-ecma load locales/en.json | i18n-ecma save --sort locales/en.toml`,
	Args: cobra.ExactArgs(1),
	RunE: runSave,
}

var (
	saveInput string
	saveSort  bool
)

func init() {
	saveCmd.Flags().StringVarP(&saveInput, "input", "i", "-", "JSON input file, - for stdin")
	saveCmd.Flags().BoolVar(&saveSort, "sort", false, "Sort keys (defaults to the configured sort_keys)")
}

func runSave(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if saveInput == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(saveInput)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	t, err := tree.FromJSON(data)
	if err != nil {
		return fmt.Errorf("failed to parse input: %w", err)
	}

	proj, err := openProject()
	if err != nil {
		return err
	}
	filename, err := absPath(args[0])
	if err != nil {
		return err
	}
	return proj.Save(cmd.Context(), filename, t, sortFlag(cmd, saveSort))
}
