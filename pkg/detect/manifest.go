package detect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/rahulwagh60/actions/pkg/rule"
)

// DefaultPathVocabulary is the fixed lowercase vocabulary matched against
// file paths. Matching is substring-based, not path-segment based, so
// `my-deploymentfoo.yaml` matches too. This permissiveness is intentional:
// tightening it to word boundaries would change which files get validated.
var DefaultPathVocabulary = []string{
	"k8s",
	"kubernetes",
	"manifests",
	"deployment",
	"service",
	"ingress",
	"configmap",
	"secret",
}

// Manifest field literals checked by the content heuristic.
var manifestFields = [][]byte{
	[]byte("apiVersion:"),
	[]byte("kind:"),
}

// ManifestClassifier decides whether a YAML file is a Kubernetes manifest.
//
// The decision policy is ordered, first match wins: the path vocabulary,
// then any configured CEL match rules, then the content field check. Callers
// are expected to submit only `.yaml`/`.yml` paths; the content scan is
// format-agnostic and would match any text.
type ManifestClassifier struct {
	vocabulary []string
	rules      []*rule.Rule
}

type ManifestOpt func(c *ManifestClassifier)

// WithPathVocabulary overrides the path substring vocabulary.
func WithPathVocabulary(vocabulary []string) ManifestOpt {
	return func(c *ManifestClassifier) {
		c.vocabulary = vocabulary
	}
}

// WithRules adds CEL match rules evaluated after the vocabulary.
func WithRules(rs []*rule.Rule) ManifestOpt {
	return func(c *ManifestClassifier) {
		c.rules = rs
	}
}

func NewManifestClassifier(opts ...ManifestOpt) *ManifestClassifier {
	c := &ManifestClassifier{
		vocabulary: DefaultPathVocabulary,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Classify reports whether path looks like a Kubernetes manifest. The
// content peek may be nil, in which case only path heuristics apply.
func (c *ManifestClassifier) Classify(path string, content []byte) Verdict {
	if c.matchesPath(path) {
		return positive(ReasonPathPattern)
	}

	for _, r := range c.rules {
		if r.MatchFiles(filepath.Dir(path), []string{path}) {
			return positive(ReasonPathPattern)
		}
	}

	for _, field := range manifestFields {
		if bytes.Contains(content, field) {
			return positive(ReasonFieldPresence)
		}
	}

	return negative()
}

// matchesPath is a case-sensitive substring match against the vocabulary.
func (c *ManifestClassifier) matchesPath(path string) bool {
	for _, word := range c.vocabulary {
		if len(word) == 0 {
			continue
		}

		if strings.Contains(path, word) {
			return true
		}
	}

	return false
}
