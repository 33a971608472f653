package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thirteen37/i18n-ecma/internal/path"
	"github.com/thirteen37/i18n-ecma/internal/tree"
)

var getCmd = &cobra.Command{
	Use:   "get <file> <key>",
	Short: "Print one key of a locale file",
	Long: `Print the value at a key path. Nested trees are printed as JSON.

Keys are dotted (greeting.formal) or JSON arrays for keys that contain dots
('["errors","e.g."]').

Example:
  i18n-ecma get locales/en.ts greeting.formal`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
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

	v, ok := tree.Get(t, p)
	if !ok {
		return fmt.Errorf("key %s not found in %s", p, args[0])
	}
	if sub := tree.ToOrderedMapPtr(v); sub != nil {
		return printTree(cmd, proj, sub)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), v)
	return err
}
