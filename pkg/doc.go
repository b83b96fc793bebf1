// Package pkg provides the core libraries for stackbom.
//
// # Overview
//
// Stackbom turns a directory of Maven project descriptors into a CycloneDX
// SBOM. Every declared dependency is resolved to a concrete version through
// parent inheritance, property placeholders and dependency management. The
// pkg directory is organized into these areas:
//
//  1. [maven] - Descriptor model, parser, registry and resolver
//  2. [xmlquery] - Tree-sitter structural queries over XML
//  3. [pipeline] - Orchestration (discover → parse → resolve)
//  4. [sbom] - CycloneDX generation and comparison
//  5. [cache], [httputil] - Parse cache and HTTP response cache
//  6. [integrations] - Repository clients for remote parent descriptors
//  7. [config], [discover], [errors], [observability], [buildinfo] - Support
//
// # Architecture
//
//	Directory
//	    ↓
//	[discover] (find pom.xml files)
//	    ↓
//	[maven] parser (parallel, through [cache])
//	    ↓
//	[maven] registry (sequential insert, optional remote parents)
//	    ↓
//	[maven] resolver (parallel against the frozen registry)
//	    ↓
//	[sbom] CycloneDX 1.6 JSON
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	defer runner.Close()
//	result, err := runner.Execute(ctx, pipeline.Options{Base: "."})
//	if err != nil {
//	    return err
//	}
//	bom := sbom.Generate(result.Dependencies(), sbom.Options{ToolName: "stackbom"})
//	return sbom.Encode(os.Stdout, bom)
package pkg
