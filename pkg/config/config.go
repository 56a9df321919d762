package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/rahulwagh60/actions/pkg/detect"
	"github.com/rahulwagh60/actions/pkg/execs"
	"github.com/rahulwagh60/actions/pkg/probe"
	"github.com/rahulwagh60/actions/pkg/rule"
	"github.com/rahulwagh60/actions/pkg/validate"
	"github.com/rahulwagh60/actions/pkg/yaml"
)

//go:generate go run ../../internal/schemagen/main.go -o config.v1beta1.json

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	//go:embed config.v1beta1.json
	schemaJSON []byte

	ValidAPIVersions = []string{
		"yamlgate.rahulwagh.dev/v1beta1",
	}
	ValidKinds = []string{
		"Configuration",
	}

	// DefaultValidator validates configuration against the embedded JSON schema.
	DefaultValidator = yaml.MustNewValidator("/config.v1beta1.json", schemaJSON)
)

//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Encryption configures the encrypted-content check.
	Encryption *EncryptionCheck `json:"encryption,omitempty" jsonschema:"title=Encryption Check"`
	// Manifests configures the manifest validation check.
	Manifests *ManifestCheck `json:"manifests,omitempty" jsonschema:"title=Manifest Check"`
	// Probe is the external file-type identification command.
	Probe *execs.Command `json:"probe,omitempty" jsonschema:"title=File Type Probe"`
	// Validator is the external manifest schema validation command.
	Validator *execs.Command `json:"validator,omitempty" jsonschema:"title=Schema Validator"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
}

// EncryptionCheck holds the knobs for the encryption classifier. Zero or nil
// fields fall back to the built-in defaults.
type EncryptionCheck struct {
	// Markers are content literals that indicate encrypted data.
	Markers []detect.Marker `json:"markers,omitempty" jsonschema:"title=Content Markers"`
	// TypeSignatures are probe label substrings that indicate non-text content.
	TypeSignatures []string `json:"typeSignatures,omitempty" jsonschema:"title=Type Signatures"`
	// SampleSize is the number of leading bytes sampled for the printable
	// ratio.
	SampleSize int `json:"sampleSize,omitempty" jsonschema:"title=Sample Size,minimum=1"`
	// PrintableThreshold is the printable-byte ratio below which content is
	// considered encrypted.
	PrintableThreshold float64 `json:"printableThreshold,omitempty" jsonschema:"title=Printable Threshold,minimum=0,maximum=1"`
}

// ManifestCheck holds the knobs for the manifest classifier.
type ManifestCheck struct {
	// PathVocabulary lists substrings that mark a path as a manifest.
	PathVocabulary []string `json:"pathVocabulary,omitempty" jsonschema:"title=Path Vocabulary"`
	// Rules are CEL expressions that route additional files into validation.
	Rules []*rule.Rule `json:"rules,omitempty" jsonschema:"title=Match Rules"`
}

// NewConfig creates a [Config] with default values.
func NewConfig() *Config {
	c := &Config{
		APIVersion: ValidAPIVersions[0],
		Kind:       ValidKinds[0],
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Encryption == nil {
		c.Encryption = &EncryptionCheck{}
	}

	c.Encryption.EnsureDefaults()

	if c.Manifests == nil {
		c.Manifests = &ManifestCheck{}
	}

	c.Manifests.EnsureDefaults()

	if c.Probe == nil {
		probeCmd := probe.DefaultCommand()
		c.Probe = &probeCmd
	} else {
		c.Probe.SetBaseEnv(os.Environ())
	}

	if c.Validator == nil {
		validatorCmd := validate.DefaultCommand()
		c.Validator = &validatorCmd
	} else {
		c.Validator.SetBaseEnv(os.Environ())
	}
}

func (e *EncryptionCheck) EnsureDefaults() {
	if e.Markers == nil {
		e.Markers = detect.DefaultMarkers
	}

	if e.TypeSignatures == nil {
		e.TypeSignatures = detect.DefaultTypeSignatures
	}

	if e.SampleSize == 0 {
		e.SampleSize = detect.DefaultSampleSize
	}

	if e.PrintableThreshold == 0 {
		e.PrintableThreshold = detect.DefaultPrintableThreshold
	}
}

func (m *ManifestCheck) EnsureDefaults() {
	if m.PathVocabulary == nil {
		m.PathVocabulary = detect.DefaultPathVocabulary
	}
}

// Validate checks internal consistency beyond what the schema covers, i.e.
// command env patterns and CEL match rules compile.
func (c *Config) Validate() error {
	if c.Probe != nil {
		err := c.Probe.CompilePatterns()
		if err != nil {
			return fmt.Errorf("probe: %w", err)
		}
	}

	if c.Validator != nil {
		err := c.Validator.CompilePatterns()
		if err != nil {
			return fmt.Errorf("validator: %w", err)
		}
	}

	if c.Manifests != nil {
		for i, r := range c.Manifests.Rules {
			err := r.CompileMatch()
			if err != nil {
				return fmt.Errorf("manifests.rules[%d]: %w", i, err)
			}
		}
	}

	return nil
}

// EncryptionClassifier builds the encryption classifier from this config.
func (c *Config) EncryptionClassifier(p detect.Prober) *detect.EncryptionClassifier {
	return detect.NewEncryptionClassifier(
		detect.WithProber(p),
		detect.WithMarkers(c.Encryption.Markers),
		detect.WithTypeSignatures(c.Encryption.TypeSignatures),
		detect.WithSampleSize(c.Encryption.SampleSize),
		detect.WithPrintableThreshold(c.Encryption.PrintableThreshold),
	)
}

// ManifestClassifier builds the manifest classifier from this config.
func (c *Config) ManifestClassifier() *detect.ManifestClassifier {
	return detect.NewManifestClassifier(
		detect.WithPathVocabulary(c.Manifests.PathVocabulary),
		detect.WithRules(c.Manifests.Rules),
	)
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	apiVersion, ok := jss.Properties.Get("apiVersion")
	if !ok {
		panic("apiVersion property not found in schema")
	}

	for _, version := range ValidAPIVersions {
		apiVersion.OneOf = append(apiVersion.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: version,
			Title: "API Version",
		})
	}

	_, _ = jss.Properties.Set("apiVersion", apiVersion)

	kind, ok := jss.Properties.Get("kind")
	if !ok {
		panic("kind property not found in schema")
	}

	for _, kindValue := range ValidKinds {
		kind.OneOf = append(kind.OneOf, &jsonschema.Schema{
			Type:  "string",
			Const: kindValue,
			Title: "Kind",
		})
	}

	_, _ = jss.Properties.Set("kind", kind)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b := &bytes.Buffer{}

	enc := yaml.NewEncoder(b)

	err := enc.Encode(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b.Bytes(), nil
}

// WriteDefaultConfig writes the embedded default config.yaml to the
// specified path. With force, an existing file is backed up first.
func WriteDefaultConfig(path string, force bool) error {
	configExists := false

	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		switch {
		case err == nil && pathInfo.Mode().IsRegular():
			configExists = true
		case pathInfo.IsDir():
			return fmt.Errorf("%s: path is a directory", path)
		default:
			return fmt.Errorf("%s: unknown file state", path)
		}
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if configExists && force {
		backupFile := fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano())
		backupPath := filepath.Join(filepath.Dir(path), backupFile)
		slog.Info("backing up existing config file", slog.String("path", backupPath))

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("rename existing config file to backup: %w", err)
		}

		configExists = false
	}

	if !configExists {
		slog.Info("write default configuration", slog.String("path", path))

		err = os.WriteFile(path, defaultConfigYAML, 0o600)
		if err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	} else {
		slog.Debug("configuration file already exists, skipping write", slog.String("path", path))
	}

	return nil
}

// GetPath returns the path to the configuration file.
func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "yamlgate", "config.yaml")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "yamlgate", "config.yaml")
	}

	tmpConfig := filepath.Join(os.TempDir(), "yamlgate", "config.yaml")

	slog.Warn("could not determine user config directory, using temp path for config",
		slog.String("path", tmpConfig),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpConfig
}
