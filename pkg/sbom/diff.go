package sbom

import (
	"sort"

	cdx "github.com/CycloneDX/cyclonedx-go"
)

// Components maps a Maven library name to its version.
type Components map[string]string

// LoadComponents collects the library components of bom that carry a Maven
// package URL. A repeated name keeps the last version seen.
func LoadComponents(bom *cdx.BOM) Components {
	out := make(Components)
	if bom == nil || bom.Components == nil {
		return out
	}
	for _, c := range *bom.Components {
		if c.Type == cdx.ComponentTypeLibrary && isMaven(c.PackageURL) {
			out[c.Name] = c.Version
		}
	}
	return out
}

// DifferenceKind classifies one disagreement between two documents.
type DifferenceKind int

const (
	VersionMismatch DifferenceKind = iota
	OnlyInFirst
	OnlyInSecond
)

func (k DifferenceKind) String() string {
	switch k {
	case VersionMismatch:
		return "version mismatch"
	case OnlyInFirst:
		return "only in first"
	default:
		return "only in second"
	}
}

// Difference is one disagreement. First and Second hold the versions on each
// side; the missing side is empty.
type Difference struct {
	Kind   DifferenceKind
	Name   string
	First  string
	Second string
}

// Report is the outcome of [Compare].
type Report struct {
	FirstCount  int
	SecondCount int
	Differences []Difference
}

// Compare reports how second differs from first. Differences are grouped by
// kind and sorted by name within each kind.
func Compare(first, second Components) Report {
	r := Report{FirstCount: len(first), SecondCount: len(second)}

	for _, name := range sortedNames(first) {
		v1 := first[name]
		v2, ok := second[name]
		if ok && v1 != v2 {
			r.Differences = append(r.Differences, Difference{Kind: VersionMismatch, Name: name, First: v1, Second: v2})
		}
	}
	for _, name := range sortedNames(first) {
		if _, ok := second[name]; !ok {
			r.Differences = append(r.Differences, Difference{Kind: OnlyInFirst, Name: name, First: first[name]})
		}
	}
	for _, name := range sortedNames(second) {
		if _, ok := first[name]; !ok {
			r.Differences = append(r.Differences, Difference{Kind: OnlyInSecond, Name: name, Second: second[name]})
		}
	}
	return r
}

// Equal reports whether the documents agree.
func (r Report) Equal() bool { return len(r.Differences) == 0 }

// Accuracy returns the agreement percentage in [0, 100].
func (r Report) Accuracy() float64 {
	total := max(r.FirstCount, r.SecondCount)
	if len(r.Differences) == 0 || total == 0 {
		return 100
	}
	diff := total - len(r.Differences)
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) / float64(total) * 100
}

func sortedNames(c Components) []string {
	names := make([]string, 0, len(c))
	for n := range c {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
