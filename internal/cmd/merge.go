package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thirteen37/i18n-ecma/internal/merge"
	"github.com/thirteen37/i18n-ecma/internal/path"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <target> <source>",
	Short: "Merge keys from one locale file into another",
	Long: `Merge the keys of source into target and write the result.

Without --key the whole source tree is merged in, source values winning.
With --key only the given keys are copied. The files may have different
formats.

Example:
  i18n-ecma merge locales/en.ts extra/en.json
  i18n-ecma merge --key greeting --key errors.notFound locales/en.ts extra/en.json`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

var (
	mergeKeys   []string
	mergeOutput string
	mergeDryRun bool
	mergeSort   bool
)

func init() {
	mergeCmd.Flags().StringArrayVarP(&mergeKeys, "key", "k", nil, "Key to copy from source (can specify multiple)")
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "Write the result here instead of to target")
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Print the merged tree as JSON instead of writing it")
	mergeCmd.Flags().BoolVar(&mergeSort, "sort", false, "Sort keys (defaults to the configured sort_keys)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	var keys []path.Path
	for _, k := range mergeKeys {
		p, err := path.Parse(k)
		if err != nil {
			return fmt.Errorf("invalid key %q: %w", k, err)
		}
		keys = append(keys, p)
	}

	proj, err := openProject()
	if err != nil {
		return err
	}

	targetFile, err := absPath(args[0])
	if err != nil {
		return err
	}
	sourceFile, err := absPath(args[1])
	if err != nil {
		return err
	}

	target, err := proj.Load(cmd.Context(), targetFile)
	if err != nil {
		return fmt.Errorf("failed to load target: %w", err)
	}
	source, err := proj.Load(cmd.Context(), sourceFile)
	if err != nil {
		return fmt.Errorf("failed to load source: %w", err)
	}

	result := merge.Merge(target, source, keys)
	if mergeDryRun {
		return printTree(cmd, proj, result)
	}

	out := targetFile
	if mergeOutput != "" {
		if out, err = absPath(mergeOutput); err != nil {
			return err
		}
	}
	if err := proj.Save(cmd.Context(), out, result, sortFlag(cmd, mergeSort)); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Merged %s into %s\n", args[1], out)
	return nil
}
