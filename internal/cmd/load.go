package cmd

import (
	"fmt"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/cobra"
	"github.com/thirteen37/i18n-ecma/internal/tree"
	"golang.org/x/sync/errgroup"
)

var loadCmd = &cobra.Command{
	Use:   "load <file>...",
	Short: "Print locale files as JSON",
	Long: `Load one or more locale files and print them as JSON.

With a single file the tree is printed as is. With several files the output
is an object keyed by the file arguments, in argument order. Files are
loaded concurrently.

Example:
  i18n-ecma load locales/en.ts
  i18n-ecma load --jobs 2 locales/en.ts locales/fr.ts`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLoad,
}

var loadJobs int

func init() {
	loadCmd.Flags().IntVarP(&loadJobs, "jobs", "j", 4, "Maximum number of files loaded at once")
}

func runLoad(cmd *cobra.Command, args []string) error {
	if loadJobs < 1 {
		return fmt.Errorf("--jobs must be at least 1, got %d", loadJobs)
	}

	proj, err := openProject()
	if err != nil {
		return err
	}

	results := make([]*orderedmap.OrderedMap, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(loadJobs)
	for i, file := range args {
		g.Go(func() error {
			filename, err := absPath(file)
			if err != nil {
				return err
			}
			t, err := proj.Load(ctx, filename)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", file, err)
			}
			results[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if len(args) == 1 {
		return printTree(cmd, proj, results[0])
	}
	out := tree.New()
	for i, file := range args {
		out.Set(file, results[i])
	}
	return printTree(cmd, proj, out)
}
