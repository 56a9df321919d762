package detect

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rahulwagh60/actions/pkg/log"
)

const (
	// DefaultSampleSize is the number of leading bytes used for the
	// printable-ratio statistic.
	DefaultSampleSize = 1000

	// DefaultPrintableThreshold is the printable-byte ratio below which
	// content is considered encrypted.
	DefaultPrintableThreshold = 0.80
)

// DefaultTypeSignatures are probe label substrings (matched
// case-insensitively) that indicate non-text content.
var DefaultTypeSignatures = []string{
	"data",
	"encrypted",
	"binary",
	"gzip",
	"compressed",
}

// Marker is a literal whose presence in file content is strong evidence of a
// specific encryption scheme. PrefixOnly markers must appear at the start of
// the content.
type Marker struct {
	// Text is the literal to search for.
	Text string `json:"text" jsonschema:"title=Text"`
	// PrefixOnly restricts the match to the start of the content.
	PrefixOnly bool `json:"prefixOnly,omitempty" jsonschema:"title=Prefix Only"`
}

// DefaultMarkers covers ansible-vault, SOPS (age/pgp key groups and ENC[
// payloads), and PGP armor.
var DefaultMarkers = []Marker{
	{Text: "$ANSIBLE_VAULT", PrefixOnly: true},
	{Text: "ansible-vault", PrefixOnly: true},
	{Text: "sops:"},
	{Text: "age:"},
	{Text: "pgp:"},
	{Text: "BEGIN PGP MESSAGE"},
	{Text: "BEGIN ENCRYPTED MESSAGE"},
	{Text: "-----BEGIN PGP MESSAGE-----"},
	{Text: "ENC["},
}

// Prober obtains a free-text file-type label for a path, e.g. from file(1).
// Implementations live outside this package; tests inject fakes.
type Prober interface {
	Probe(ctx context.Context, path string) (string, error)
}

// EncryptionClassifier decides whether a file's content is encrypted.
//
// Three independent methods are evaluated and OR-ed together: the external
// file-type signature, the content marker scan, and the printable-ratio
// statistic. Any positive signal marks the file encrypted; the reported
// reason is the first positive method in that order.
type EncryptionClassifier struct {
	prober             Prober
	markers            []Marker
	typeSignatures     []string
	sampleSize         int
	printableThreshold float64
}

type EncryptionOpt func(c *EncryptionClassifier)

// WithProber sets the external file-type probe.
func WithProber(p Prober) EncryptionOpt {
	return func(c *EncryptionClassifier) {
		c.prober = p
	}
}

// WithMarkers overrides the content marker table.
func WithMarkers(markers []Marker) EncryptionOpt {
	return func(c *EncryptionClassifier) {
		c.markers = markers
	}
}

// WithTypeSignatures overrides the probe label substrings.
func WithTypeSignatures(signatures []string) EncryptionOpt {
	return func(c *EncryptionClassifier) {
		c.typeSignatures = signatures
	}
}

// WithSampleSize sets the printable-ratio sample size in bytes.
func WithSampleSize(n int) EncryptionOpt {
	return func(c *EncryptionClassifier) {
		if n > 0 {
			c.sampleSize = n
		}
	}
}

// WithPrintableThreshold sets the printable-ratio threshold.
func WithPrintableThreshold(t float64) EncryptionOpt {
	return func(c *EncryptionClassifier) {
		if t > 0 && t <= 1 {
			c.printableThreshold = t
		}
	}
}

func NewEncryptionClassifier(opts ...EncryptionOpt) *EncryptionClassifier {
	c := &EncryptionClassifier{
		markers:            DefaultMarkers,
		typeSignatures:     DefaultTypeSignatures,
		sampleSize:         DefaultSampleSize,
		printableThreshold: DefaultPrintableThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Classify reports whether the sample is encrypted.
//
// A probe failure is an environment fault and aborts classification; it is
// never folded into a "not encrypted" verdict. All three methods are
// evaluated so the outcome is their OR regardless of reporting order.
func (c *EncryptionClassifier) Classify(ctx context.Context, s *Sample) (Verdict, error) {
	reason := ReasonNone

	if c.prober != nil {
		label, err := c.prober.Probe(ctx, s.Path())
		if err != nil {
			return Verdict{}, fmt.Errorf("probe file type: %w", err)
		}

		if c.matchesTypeSignature(label) {
			reason = ReasonFileTypeSignature
		}

		log.WithContext(ctx).DebugContext(ctx, "probed file type",
			slog.String("path", s.Path()),
			slog.String("label", strings.TrimSpace(label)),
		)
	}

	if marker := c.scanMarkers(s.Bytes()); marker != nil && reason == ReasonNone {
		reason = ReasonContentMarker
	}

	if c.belowPrintableThreshold(s.Head(c.sampleSize)) && reason == ReasonNone {
		reason = ReasonLowPrintableRatio
	}

	if reason == ReasonNone {
		return negative(), nil
	}

	return positive(reason), nil
}

// matchesTypeSignature reports whether the probe label case-insensitively
// contains any configured signature.
func (c *EncryptionClassifier) matchesTypeSignature(label string) bool {
	label = strings.ToLower(label)
	for _, sig := range c.typeSignatures {
		if strings.Contains(label, strings.ToLower(sig)) {
			return true
		}
	}

	return false
}

// scanMarkers returns the first matching marker, or nil.
func (c *EncryptionClassifier) scanMarkers(content []byte) *Marker {
	for i, m := range c.markers {
		if m.PrefixOnly {
			if bytes.HasPrefix(content, []byte(m.Text)) {
				return &c.markers[i]
			}

			continue
		}

		if bytes.Contains(content, []byte(m.Text)) {
			return &c.markers[i]
		}
	}

	return nil
}

// belowPrintableThreshold computes the printable-or-whitespace byte ratio
// over the prefix. An empty prefix abstains: a zero-length file is not
// evidence of encryption.
func (c *EncryptionClassifier) belowPrintableThreshold(prefix []byte) bool {
	if len(prefix) == 0 {
		return false
	}

	return printableRatio(prefix) < c.printableThreshold
}

// printableRatio treats every byte as ASCII; printable is the standard
// printable class plus whitespace.
func printableRatio(b []byte) float64 {
	printable := 0
	for _, c := range b {
		if (c >= 0x20 && c < 0x7f) || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f' {
			printable++
		}
	}

	return float64(printable) / float64(len(b))
}
