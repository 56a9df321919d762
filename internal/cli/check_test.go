package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulwagh60/actions/pkg/batch"
)

func runRootCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCmd()

	var stdout, stderr bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestSecretsCommand(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	vault := filepath.Join(dir, "vault.yaml")
	require.NoError(t, os.WriteFile(vault, []byte("$ANSIBLE_VAULT;1.1;AES256\n3330\n"), 0o600))

	plain := filepath.Join(dir, "plain.yaml")
	require.NoError(t, os.WriteFile(plain, []byte("password: hunter2\n"), 0o600))

	t.Run("all encrypted passes", func(t *testing.T) {
		stdout, _, err := runRootCmd(t,
			"secrets", vault,
			"--config", configPath,
			"--probe-cmd", "echo ASCII text",
			"--output", "json",
		)
		require.NoError(t, err)

		var report jsonReport

		require.NoError(t, json.Unmarshal([]byte(stdout), &report))
		assert.Equal(t, batch.StatusPassed, report.Status)
		assert.Equal(t, batch.ModeEncryption, report.Mode)
	})

	t.Run("plaintext fails", func(t *testing.T) {
		stdout, _, err := runRootCmd(t,
			"secrets", vault, plain,
			"--config", configPath,
			"--probe-cmd", "echo ASCII text",
			"--output", "json",
		)
		require.ErrorIs(t, err, ErrChecksFailed)

		var report jsonReport

		require.NoError(t, json.Unmarshal([]byte(stdout), &report))
		assert.Equal(t, batch.StatusFailed, report.Status)
		assert.Len(t, report.Summary.Failing, 1)
		assert.Equal(t, plain, report.Summary.Failing[0].Path)
	})
}

func TestManifestsCommand(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	manifest := filepath.Join(dir, "deployment.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("apiVersion: apps/v1\nkind: Deployment\n"), 0o600))

	values := filepath.Join(dir, "values.yaml")
	require.NoError(t, os.WriteFile(values, []byte("replicas: 3\n"), 0o600))

	t.Run("valid manifests pass", func(t *testing.T) {
		stdout, _, err := runRootCmd(t,
			"manifests", manifest, values,
			"--config", configPath,
			"--validator-cmd", "true",
			"--output", "json",
		)
		require.NoError(t, err)

		var report jsonReport

		require.NoError(t, json.Unmarshal([]byte(stdout), &report))
		assert.Equal(t, batch.StatusPassed, report.Status)
		// Only the manifest is matched, but both files pass.
		assert.Equal(t, 1, report.Summary.Matched)
		assert.Len(t, report.Summary.Passing, 2)
	})

	t.Run("invalid manifest fails", func(t *testing.T) {
		stdout, _, err := runRootCmd(t,
			"manifests", manifest,
			"--config", configPath,
			"--validator-cmd", "sh -c 'echo invalid; exit 1' validator",
			"--output", "json",
		)
		require.ErrorIs(t, err, ErrChecksFailed)

		var report jsonReport

		require.NoError(t, json.Unmarshal([]byte(stdout), &report))
		require.Len(t, report.Summary.Failing, 1)
		assert.Contains(t, report.Summary.Failing[0].Diagnostic, "invalid")
	})
}

func TestSecretsCommand_StdinFiltersNonYAML(t *testing.T) {
	dir := t.TempDir()

	vault := filepath.Join(dir, "vault.yaml")
	require.NoError(t, os.WriteFile(vault, []byte("$ANSIBLE_VAULT;1.1;AES256\n3330\n"), 0o600))

	source := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(source, []byte("package main\n"), 0o600))

	cmd := NewRootCmd()

	var stdout, stderr bytes.Buffer

	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(source + "\n" + vault + "\n"))
	cmd.SetArgs([]string{
		"secrets", "-",
		"--config", filepath.Join(dir, "config.yaml"),
		"--probe-cmd", "echo ASCII text",
		"--output", "json",
	})

	require.NoError(t, cmd.Execute())

	var report jsonReport

	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))

	// The .go file from the diff listing never reaches the classifier.
	assert.Equal(t, batch.StatusPassed, report.Status)
	assert.Equal(t, 1, report.Summary.Total)
	assert.Equal(t, []string{vault}, report.Summary.Passing)
}

func TestShowConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	stdout, _, err := runRootCmd(t,
		"secrets",
		"--config", configPath,
		"--show-config",
	)
	require.NoError(t, err)

	assert.Contains(t, stdout, "apiVersion: yamlgate.rahulwagh.dev/v1beta1")
	assert.Contains(t, stdout, "kind: Configuration")

	// The default config file was written on first use.
	_, statErr := os.Stat(configPath)
	require.NoError(t, statErr)
}

func TestWriteConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	_, _, err := runRootCmd(t,
		"secrets",
		"--config", configPath,
		"--write-config",
	)
	require.NoError(t, err)

	data, readErr := os.ReadFile(configPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "kind: Configuration")
}

func TestUnknownOutputFormat(t *testing.T) {
	dir := t.TempDir()

	_, _, err := runRootCmd(t,
		"secrets", dir,
		"--config", filepath.Join(dir, "config.yaml"),
		"--output", "xml",
	)
	require.Error(t, err)
}
