// Package sbom converts resolved dependencies into CycloneDX documents and
// compares documents.
//
// # Generation
//
// [Generate] turns every resolved dependency into a library component:
//
//   - name: groupId:artifactId
//   - version: the resolved version
//   - purl: pkg:maven/groupId/artifactId@version, only when a version is known
//   - evidence: one occurrence per declaring descriptor, with line and column
//
// Components are deduplicated by bom-ref (the purl, or the name for
// unversioned components); the first declaration wins and later ones only
// add occurrences.
//
// # Comparison
//
// [Compare] matches the Maven library components of two documents by name
// and reports version mismatches and components missing from either side.
// [Report.Accuracy] scores the agreement as (max - differences) / max * 100
// where max is the larger component count.
package sbom
