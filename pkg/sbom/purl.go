package sbom

import (
	packageurl "github.com/package-url/packageurl-go"
)

// PackageURL returns the Maven package URL of a coordinate.
func PackageURL(groupID, artifactID, version string) string {
	return packageurl.NewPackageURL(packageurl.TypeMaven, groupID, artifactID, version, nil, "").ToString()
}

// isMaven reports whether purl parses as a Maven package URL.
func isMaven(purl string) bool {
	if purl == "" {
		return false
	}
	p, err := packageurl.FromString(purl)
	return err == nil && p.Type == packageurl.TypeMaven
}
