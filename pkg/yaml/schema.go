package yaml

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// SchemaGenerator produces a JSON schema for a configuration type by
// reflection, pulling descriptions from Go doc comments.
type SchemaGenerator struct {
	value    any
	root     string
	packages []string
}

type SchemaGeneratorOpt func(g *SchemaGenerator)

// WithModuleRoot sets the filesystem path to the module root, relative to
// the working directory of the generator. Defaults to "../../" since
// generators run from their package directory via go:generate.
func WithModuleRoot(root string) SchemaGeneratorOpt {
	return func(g *SchemaGenerator) {
		g.root = root
	}
}

// NewSchemaGenerator creates a [SchemaGenerator] for value. The packages are
// Go import paths whose doc comments should be reflected into the schema.
func NewSchemaGenerator(value any, packages []string, opts ...SchemaGeneratorOpt) *SchemaGenerator {
	g := &SchemaGenerator{
		value:    value,
		root:     "../../",
		packages: packages,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate reflects the schema and renders it as indented JSON.
func (g *SchemaGenerator) Generate() ([]byte, error) {
	r := new(jsonschema.Reflector)

	for _, pkg := range g.packages {
		dir := g.root + pkgDir(pkg)

		err := r.AddGoComments(pkg, dir)
		if err != nil {
			return nil, fmt.Errorf("add comments for %s: %w", pkg, err)
		}
	}

	jss := r.Reflect(g.value)

	data, err := json.MarshalIndent(jss, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return append(data, '\n'), nil
}

// pkgDir maps an import path to a module-relative directory by dropping the
// module prefix, e.g. "example.com/mod/pkg/config" becomes "pkg/config".
func pkgDir(pkg string) string {
	parts := strings.Split(pkg, "/")
	for i, part := range parts {
		if part == "pkg" || part == "internal" || part == "api" {
			return strings.Join(parts[i:], "/")
		}
	}

	return pkg
}
