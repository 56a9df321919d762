package rule

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/rahulwagh60/actions/pkg/expr"
)

// Rule uses a CEL matcher to route files into a check.
//
// CEL expressions have access to variables:
//   - `files` (list<string>): the candidate file paths
//   - `dir` (string): the directory path being processed
//
// CEL expressions must return a boolean value:
//   - files.exists(f, pathExt(f) in [".yaml", ".yml"]) - true if any YAML files exist
//   - files.exists(f, pathBase(f) == "kustomization.yaml") - true if a kustomization exists
//   - files.exists(f, yamlPath(f, "$.kind") == "Kustomization") - true for kustomize overlays
//   - false - rule doesn't match
//
// CEL path functions available:
//   - pathBase(string): Returns the last element of the path (filename)
//   - pathDir(string): Returns all but the last element of the path (directory)
//   - pathExt(string): Returns the file extension including the dot
//   - yamlPath(file, path): Reads a YAML file and extracts value at path (returns null if not found)
//
// CEL also provides standard functions like `endsWith`, `contains`,
// `startsWith`, `matches`, along with list functions like `filter`, `exists`,
// `in`, and logical operators like `&&`, `||`, and `!`.
type Rule struct {
	matchProgram cel.Program // Compiled CEL program for matching file paths.

	// Match is a CEL expression to match file paths.
	Match string `json:"match" jsonschema:"title=Match Expression"`
}

// New creates a new rule with the given match expression.
func New(match string) (*Rule, error) {
	r := &Rule{
		Match: match,
	}

	err := r.CompileMatch()
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", match, err)
	}

	return r, nil
}

// MustNew creates a new rule and panics if there's an error.
func MustNew(match string) *Rule {
	r, err := New(match)
	if err != nil {
		panic(err)
	}

	return r
}

// CompileMatch compiles the rule's match expression into a CEL program.
func (r *Rule) CompileMatch() error {
	if r.matchProgram == nil {
		env, err := expr.CreateEnvironment()
		if err != nil {
			return fmt.Errorf("create CEL environment: %w", err)
		}

		program, err := env.Compile(r.Match)
		if err != nil {
			return fmt.Errorf("compile match expression: %w", err)
		}

		r.matchProgram = program
	}

	return nil
}

// MatchFiles evaluates the rule against a collection of files in a directory.
// The CEL expression must return a boolean value indicating whether the rule
// matches; evaluation failure or a non-boolean result is a non-match.
func (r *Rule) MatchFiles(dirPath string, files []string) bool {
	if r.matchProgram == nil {
		panic(errors.New("rule missing a match expression"))
	}

	result, _, err := r.matchProgram.Eval(map[string]any{
		"files": files,
		"dir":   dirPath,
	})
	if err != nil {
		return false
	}

	if boolVal, ok := result.Value().(bool); ok {
		return boolVal
	}

	return false
}

func (r *Rule) String() string {
	return r.Match
}
