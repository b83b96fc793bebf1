// Package maven computes the effective dependency set of a hierarchy of Maven
// project descriptors (pom.xml).
//
// Resolution runs in two passes. Pass one parses every descriptor into a
// [ProjectFile] and inserts it into a [RegistryBuilder]. Pass two freezes the
// builder into a [Registry] and runs a [Resolver] per file: the resolver walks
// the ancestor chain, merges properties and dependency management, substitutes
// ${name} placeholders and keeps only dependencies that end up fully concrete.
//
// # Ancestors
//
// A parent is located by its relativePath first, then by its explicit
// group/artifact/version coordinate. A parent that is not part of the scanned
// set is not an error: the chain simply stops there.
//
// # Placeholders
//
// Property values get exactly one substitution pass per ancestor level, and
// only when the whole value is a single ${name} reference. Dependency fields
// get one pass over every embedded reference. Chains that need more hops stay
// unresolved and the affected dependency is dropped.
//
// # Dependency management
//
// Ancestor entries come before descendant entries and the first entry with a
// matching group and artifact wins, so the root of the chain takes precedence
// over closer declarations of the same coordinate.
package maven
