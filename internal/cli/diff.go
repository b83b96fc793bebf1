package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackbom/pkg/sbom"
)

// errDifferences makes diff exit non-zero when the documents disagree.
var errDifferences = errors.New("sboms differ")

// diffCommand creates the diff command.
func (c *CLI) diffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <first.json> <second.json>",
		Short: "Compare the Maven components of two CycloneDX SBOMs",
		Long: `Compare the Maven library components of two CycloneDX JSON documents.

Components are matched by name. Version mismatches and components present on
only one side are listed, followed by the agreement percentage. The command
exits non-zero when any difference is found.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			first, err := loadComponents(args[0])
			if err != nil {
				return err
			}
			second, err := loadComponents(args[1])
			if err != nil {
				return err
			}
			report := sbom.Compare(first, second)
			writeReport(cmd.OutOrStdout(), report)
			if !report.Equal() {
				return errDifferences
			}
			return nil
		},
	}
}

func loadComponents(path string) (sbom.Components, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	bom, err := sbom.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sbom.LoadComponents(bom), nil
}

// writeReport prints one line per difference and a summary.
func writeReport(w io.Writer, r sbom.Report) {
	for _, d := range r.Differences {
		switch d.Kind {
		case sbom.VersionMismatch:
			fmt.Fprintf(w, "%s: %s != %s\n", d.Name, d.First, d.Second)
		case sbom.OnlyInFirst:
			fmt.Fprintf(w, "- %s %s\n", d.Name, d.First)
		case sbom.OnlyInSecond:
			fmt.Fprintf(w, "+ %s %s\n", d.Name, d.Second)
		}
	}
	if r.Equal() {
		printSuccess("Documents agree on %s components", StyleNumber.Render(fmt.Sprint(r.FirstCount)))
		return
	}
	printError("%d differences", len(r.Differences))
	printKeyValue("first", fmt.Sprintf("%d components", r.FirstCount))
	printKeyValue("second", fmt.Sprintf("%d components", r.SecondCount))
	printKeyValue("accuracy", fmt.Sprintf("%.2f%%", r.Accuracy()))
}
