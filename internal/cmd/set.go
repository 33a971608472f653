package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thirteen37/i18n-ecma/internal/path"
	"github.com/thirteen37/i18n-ecma/internal/tree"
)

var setCmd = &cobra.Command{
	Use:   "set <file> <key> <value>",
	Short: "Set one key of a locale file",
	Long: `Set the string at a key path and write the file back.

Intermediate trees are created as needed.

Example:
  i18n-ecma set locales/en.json greeting.formal 'Good day'`,
	Args: cobra.ExactArgs(3),
	RunE: runSet,
}

var setSort bool

func init() {
	setCmd.Flags().BoolVar(&setSort, "sort", false, "Sort keys (defaults to the configured sort_keys)")
}

func runSet(cmd *cobra.Command, args []string) error {
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

	if err := tree.Set(t, p, args[2]); err != nil {
		return fmt.Errorf("failed to set %s: %w", p, err)
	}
	if err := proj.Save(cmd.Context(), filename, t, sortFlag(cmd, setSort)); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", p)
	return nil
}
