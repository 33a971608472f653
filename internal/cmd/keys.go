package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thirteen37/i18n-ecma/internal/tree"
)

var keysCmd = &cobra.Command{
	Use:   "keys <file>",
	Short: "List the keys of a locale file",
	Long: `List every leaf key of a locale file in dotted form, in file order.

Example:
  i18n-ecma keys --values locales/en.ts`,
	Args: cobra.ExactArgs(1),
	RunE: runKeys,
}

var keysValues bool

func init() {
	keysCmd.Flags().BoolVar(&keysValues, "values", false, "Print values next to keys")
}

func runKeys(cmd *cobra.Command, args []string) error {
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

	flat := tree.Flatten(t)
	if len(flat.Keys()) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No keys")
		return nil
	}

	for _, k := range flat.Keys() {
		if !keysValues {
			fmt.Fprintln(cmd.OutOrStdout(), k)
			continue
		}
		v, _ := flat.Get(k)
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", k, v)
	}
	return nil
}
