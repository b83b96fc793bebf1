package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackbom/pkg/maven"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	scanOpts
	json   bool   // emit JSON instead of a table
	output string // output file path (stdout if empty)
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var opts resolveOpts

	cmd := &cobra.Command{
		Use:   "resolve [dir]",
		Short: "List resolved dependencies with their source locations",
		Long: `List every resolved dependency under a directory.

Each line shows the dependency name, its resolved version and the file and
line where it was declared.

Examples:
  stackbom resolve                 # Table for the current directory
  stackbom resolve ./app --json    # JSON records`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd, &opts, dirArg(args))
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "emit JSON")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runResolve(cmd *cobra.Command, opts *resolveOpts, dir string) error {
	result, err := c.scan(cmd, &opts.scanOpts, dir)
	if err != nil {
		return err
	}
	deps := result.Dependencies()
	return writeOutput(opts.output, cmd.OutOrStdout(), func(w io.Writer) error {
		if opts.json {
			return writeDependenciesJSON(w, deps)
		}
		return writeDependenciesText(w, deps)
	})
}

// writeDependenciesText writes one aligned line per dependency:
// name, version and file:line.
func writeDependenciesText(w io.Writer, deps []maven.ResolvedDependency) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, d := range deps {
		version := d.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, version, declaredAt(d))
	}
	return tw.Flush()
}

func writeDependenciesJSON(w io.Writer, deps []maven.ResolvedDependency) error {
	if deps == nil {
		deps = []maven.ResolvedDependency{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(deps)
}

func declaredAt(d maven.ResolvedDependency) string {
	if d.Location == nil {
		return d.File
	}
	return fmt.Sprintf("%s:%d", d.File, d.Location.Block.Start.Line)
}
