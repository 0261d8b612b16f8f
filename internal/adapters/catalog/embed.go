// Package catalog embeds the curated YAML shape catalog.
// This is a standalone package with no imports to avoid circular dependencies.
package catalog

import "embed"

// Dir is the directory inside FS that holds the catalog files.
const Dir = "shapes"

//go:embed shapes/*.yaml
var FS embed.FS
