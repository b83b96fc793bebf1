package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackbom/pkg/buildinfo"
	"github.com/matzehuels/stackbom/pkg/maven"
	"github.com/matzehuels/stackbom/pkg/pipeline"
	"github.com/matzehuels/stackbom/pkg/sbom"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	scanOpts
	output string // output file path (stdout if empty)
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate [dir]",
		Short: "Generate a CycloneDX SBOM for a Maven project",
		Long: `Generate a CycloneDX 1.6 SBOM for every pom.xml under a directory.

Each declared dependency is resolved through parent inheritance, property
placeholders and dependency management. Files that fail to parse or resolve
are reported as warnings and left out of the SBOM.

Examples:
  stackbom generate                       # Scan the current directory
  stackbom generate ./service -o bom.json # Write to a file
  stackbom generate --remote --strict     # Fetch missing parents, fail on bad relativePath`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, &opts, dirArg(args))
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts *generateOpts, dir string) error {
	result, err := c.scan(cmd, &opts.scanOpts, dir)
	if err != nil {
		return err
	}

	bom := sbom.Generate(result.Dependencies(), sbom.Options{
		ToolName:    appName,
		ToolVersion: buildinfo.Version,
		Subject:     rootCoordinate(result),
	})

	if err := writeOutput(opts.output, cmd.OutOrStdout(), func(w io.Writer) error {
		return sbom.Encode(w, bom)
	}); err != nil {
		return err
	}

	components := 0
	if bom.Components != nil {
		components = len(*bom.Components)
	}
	if opts.output != "" {
		printSuccess("Generated SBOM")
		printFile(opts.output)
	}
	printStats(len(result.Files), components, len(result.Errors), allCached(result))
	return nil
}

// rootCoordinate returns the coordinate of the descriptor at the top of the
// scanned directory, if there is one with a complete coordinate.
func rootCoordinate(result *pipeline.Result) *maven.Coordinate {
	for _, f := range result.Files {
		if strings.EqualFold(f.File, "pom.xml") && f.Coordinate.GroupID != "" && f.Coordinate.Version != "" {
			coord := f.Coordinate
			return &coord
		}
	}
	return nil
}

func allCached(result *pipeline.Result) bool {
	return result.CacheInfo.ParseHits > 0 && result.CacheInfo.ParseMisses == 0
}

// dirArg returns the directory argument, defaulting to the working directory.
func dirArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

// writeOutput runs write against path, or against stdout when path is empty.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
