package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulwagh60/actions/pkg/config"
	"github.com/rahulwagh60/actions/pkg/detect"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	c := config.NewConfig()

	assert.Equal(t, "yamlgate.rahulwagh.dev/v1beta1", c.APIVersion)
	assert.Equal(t, "Configuration", c.Kind)

	require.NotNil(t, c.Encryption)
	assert.Equal(t, detect.DefaultSampleSize, c.Encryption.SampleSize)
	assert.InEpsilon(t, detect.DefaultPrintableThreshold, c.Encryption.PrintableThreshold, 0.001)
	assert.Equal(t, detect.DefaultMarkers, c.Encryption.Markers)

	require.NotNil(t, c.Manifests)
	assert.Equal(t, detect.DefaultPathVocabulary, c.Manifests.PathVocabulary)

	require.NotNil(t, c.Probe)
	assert.Equal(t, "file", c.Probe.Command)

	require.NotNil(t, c.Validator)
	assert.Equal(t, "kubeconform", c.Validator.Command)
}

func TestConfig_EnsureDefaults_PreservesOverrides(t *testing.T) {
	t.Parallel()

	c := &config.Config{
		Encryption: &config.EncryptionCheck{
			SampleSize:         64,
			PrintableThreshold: 0.5,
		},
		Manifests: &config.ManifestCheck{
			PathVocabulary: []string{"charts"},
		},
	}
	c.EnsureDefaults()

	assert.Equal(t, 64, c.Encryption.SampleSize)
	assert.InEpsilon(t, 0.5, c.Encryption.PrintableThreshold, 0.001)
	assert.Equal(t, []string{"charts"}, c.Manifests.PathVocabulary)

	// Unset fields still get defaults.
	assert.Equal(t, detect.DefaultMarkers, c.Encryption.Markers)
	assert.NotNil(t, c.Probe)
	assert.NotNil(t, c.Validator)
}

func TestConfig_Classifiers(t *testing.T) {
	t.Parallel()

	c := config.NewConfig()
	c.Manifests.PathVocabulary = []string{"charts"}

	mc := c.ManifestClassifier()
	assert.True(t, mc.Classify("charts/app.yaml", nil).Positive)
	assert.False(t, mc.Classify("k8s/app.yaml", []byte("foo: bar\n")).Positive)

	ec := c.EncryptionClassifier(nil)

	got, err := ec.Classify(t.Context(), detect.NewSample("a.yaml", []byte("$ANSIBLE_VAULT;1.1\n")))
	require.NoError(t, err)
	assert.True(t, got.Positive)
}

func TestConfig_MarshalYAML(t *testing.T) {
	t.Parallel()

	c := config.NewConfig()

	b, err := c.MarshalYAML()
	require.NoError(t, err)

	s := string(b)
	assert.Contains(t, s, "apiVersion: yamlgate.rahulwagh.dev/v1beta1")
	assert.Contains(t, s, "kind: Configuration")
	assert.Contains(t, s, "printableThreshold: 0.8")
}
