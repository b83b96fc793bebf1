package sbom

import (
	"io"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/google/uuid"

	"github.com/matzehuels/stackbom/pkg/errors"
	"github.com/matzehuels/stackbom/pkg/maven"
)

// scopeProperty names the component property carrying the Maven scope.
const scopeProperty = "maven:scope"

// Options controls document metadata. Zero values are filled in by
// [Generate]: a random serial number and the current time.
type Options struct {
	SerialNumber string
	Timestamp    time.Time
	ToolName     string
	ToolVersion  string

	// Subject describes the scanned project, if known.
	Subject *maven.Coordinate
}

// Generate builds a CycloneDX document from deps.
func Generate(deps []maven.ResolvedDependency, opts Options) *cdx.BOM {
	bom := cdx.NewBOM()
	bom.SpecVersion = cdx.SpecVersion1_6

	bom.SerialNumber = opts.SerialNumber
	if bom.SerialNumber == "" {
		bom.SerialNumber = "urn:uuid:" + uuid.New().String()
	}
	ts := opts.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	bom.Metadata = &cdx.Metadata{Timestamp: ts.UTC().Format(time.RFC3339)}
	if opts.ToolName != "" {
		bom.Metadata.Tools = &cdx.ToolsChoice{
			Components: &[]cdx.Component{{
				Type:    cdx.ComponentTypeApplication,
				Name:    opts.ToolName,
				Version: opts.ToolVersion,
			}},
		}
	}
	if s := opts.Subject; s != nil {
		subject := component(s.GroupID, s.ArtifactID, s.Version)
		subject.Type = cdx.ComponentTypeApplication
		bom.Metadata.Component = &subject
	}

	components := make([]cdx.Component, 0, len(deps))
	index := make(map[string]int, len(deps))
	for _, d := range deps {
		c := component(d.GroupID, d.ArtifactID, d.Version)
		if i, ok := index[c.BOMRef]; ok {
			addOccurrence(&components[i], d)
			continue
		}
		if d.Scope != "" {
			c.Properties = &[]cdx.Property{{Name: scopeProperty, Value: string(d.Scope)}}
		}
		addOccurrence(&c, d)
		index[c.BOMRef] = len(components)
		components = append(components, c)
	}
	bom.Components = &components
	return bom
}

func component(groupID, artifactID, version string) cdx.Component {
	name := groupID + ":" + artifactID
	c := cdx.Component{
		BOMRef:  name,
		Type:    cdx.ComponentTypeLibrary,
		Name:    name,
		Version: version,
	}
	if version != "" {
		c.PackageURL = PackageURL(groupID, artifactID, version)
		c.BOMRef = c.PackageURL
	}
	return c
}

func addOccurrence(c *cdx.Component, d maven.ResolvedDependency) {
	occ := cdx.EvidenceOccurrence{Location: d.File}
	if d.Location != nil {
		line, col := d.Location.Block.Start.Line, d.Location.Block.Start.Column
		occ.Line = &line
		occ.Offset = &col
	}
	if c.Evidence == nil {
		c.Evidence = &cdx.Evidence{Occurrences: &[]cdx.EvidenceOccurrence{}}
	}
	*c.Evidence.Occurrences = append(*c.Evidence.Occurrences, occ)
}

// Encode writes bom as indented CycloneDX 1.6 JSON.
func Encode(w io.Writer, bom *cdx.BOM) error {
	enc := cdx.NewBOMEncoder(w, cdx.BOMFileFormatJSON)
	enc.SetPretty(true)
	if err := enc.EncodeVersion(bom, cdx.SpecVersion1_6); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode sbom")
	}
	return nil
}

// Decode reads a CycloneDX JSON document.
func Decode(r io.Reader) (*cdx.BOM, error) {
	var bom cdx.BOM
	if err := cdx.NewBOMDecoder(r, cdx.BOMFileFormatJSON).Decode(&bom); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode sbom")
	}
	return &bom, nil
}
