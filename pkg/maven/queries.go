package maven

// Query names compiled into every Parser.
const (
	queryIdentity             = "identity"
	queryProperties           = "properties"
	queryParent               = "parent"
	queryDependencies         = "dependencies"
	queryDependencyManagement = "dependencyManagement"
)

// Each pattern yields one match per leaf element of interest, so duplicate or
// reordered children never shift capture positions. Leaf values are the
// (content) node of the element; empty elements do not match.
var queries = map[string]string{
	queryIdentity: `
(document
  root: (element
    (STag (Name) @project)
    (content
      (element
        (STag (Name) @key)
        (content) @value))
    (#eq? @project "project")
    (#any-of? @key "groupId" "artifactId" "version")))
`,

	queryProperties: `
(document
  root: (element
    (STag (Name) @project)
    (content
      (element
        (STag (Name) @properties)
        (content
          (element
            (STag (Name) @key)
            (content) @value))))
    (#eq? @project "project")
    (#eq? @properties "properties")))
`,

	queryParent: `
(document
  root: (element
    (STag (Name) @project)
    (content
      (element
        (STag (Name) @parent)
        (content
          (element
            (STag (Name) @key)
            (content) @value))))
    (#eq? @project "project")
    (#eq? @parent "parent")
    (#any-of? @key "relativePath" "groupId" "artifactId" "version")))
`,

	queryDependencies: `
(document
  root: (element
    (STag (Name) @project)
    (content
      (element
        (STag (Name) @dependencies)
        (content
          (element
            (STag (Name) @dependency)
            (content
              (element
                (STag (Name) @tag)
                (content) @value))) @element)))
    (#eq? @project "project")
    (#eq? @dependencies "dependencies")
    (#eq? @dependency "dependency")))
`,

	queryDependencyManagement: `
(document
  root: (element
    (STag (Name) @project)
    (content
      (element
        (STag (Name) @management)
        (content
          (element
            (STag (Name) @dependencies)
            (content
              (element
                (STag (Name) @dependency)
                (content
                  (element
                    (STag (Name) @tag)
                    (content) @value))) @element)))))
    (#eq? @project "project")
    (#eq? @management "dependencyManagement")
    (#eq? @dependencies "dependencies")
    (#eq? @dependency "dependency")))
`,
}
