package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var parsersCmd = &cobra.Command{
	Use:   "parsers",
	Short: "List the available parsers",
	Long: `List the parsers with their language ids, extension patterns and whether
they can write files in this project.`,
	Args: cobra.NoArgs,
	RunE: runParsers,
}

func runParsers(cmd *cobra.Command, args []string) error {
	proj, err := openProject()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLANGUAGES\tEXTENSIONS\tWRITABLE")
	for _, p := range proj.Registry.Parsers() {
		d := p.Descriptor()
		writable := "yes"
		if p.Readonly() {
			writable = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.ID, strings.Join(d.LanguageIDs, ","), d.Extension, writable)
	}
	return w.Flush()
}
