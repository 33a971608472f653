package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thirteen37/i18n-ecma/internal/path"
	"github.com/thirteen37/i18n-ecma/internal/tree"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <file> <key>",
	Short: "Remove one key from a locale file",
	Long: `Remove the value at a key path and write the file back.

Example:
  i18n-ecma delete locales/en.json greeting.formal`,
	Args: cobra.ExactArgs(2),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	p, err := path.Parse(args[1])
	if err != nil {
		return fmt.Errorf("invalid key %q: %w", args[1], err)
	}

	proj, err := openProject()
	if err != nil {
		return err
	}
	filename, err := absPath(args[0])
	if err != nil {
		return err
	}
	t, err := proj.Load(cmd.Context(), filename)
	if err != nil {
		return err
	}

	if !tree.Delete(t, p) {
		fmt.Fprintf(cmd.OutOrStdout(), "Key %s not found\n", p)
		return nil
	}
	if err := proj.Save(cmd.Context(), filename, t, nil); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", p)
	return nil
}
