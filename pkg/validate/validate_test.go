package validate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulwagh60/actions/pkg/execs"
	"github.com/rahulwagh60/actions/pkg/validate"
)

func writeManifest(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "deployment.yaml")
	require.NoError(t, os.WriteFile(path, []byte("apiVersion: apps/v1\nkind: Deployment\n"), 0o600))

	return path
}

func TestCommandValidator_Validate(t *testing.T) {
	t.Parallel()

	path := writeManifest(t)

	tcs := map[string]struct {
		command        string
		args           []string
		wantValid      bool
		wantDiagnostic string
	}{
		"zero exit means valid": {
			command:   "true",
			wantValid: true,
		},
		"non-zero exit with output means invalid": {
			command:        "sh",
			args:           []string{"-c", "echo 'spec: field is required'; exit 1", "validator"},
			wantValid:      false,
			wantDiagnostic: "spec: field is required",
		},
		"diagnostic on stderr": {
			command:        "sh",
			args:           []string{"-c", "echo 'bad manifest' >&2; exit 2", "validator"},
			wantValid:      false,
			wantDiagnostic: "bad manifest",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cmd := execs.NewCommand(os.Environ())
			cmd.Command = tc.command
			cmd.Args = tc.args

			v := validate.New(cmd)

			outcome, err := v.Validate(t.Context(), path)
			require.NoError(t, err)

			assert.Equal(t, tc.wantValid, outcome.Valid)
			if tc.wantDiagnostic != "" {
				assert.Contains(t, outcome.Diagnostic, tc.wantDiagnostic)
			}
		})
	}
}

func TestCommandValidator_Unavailable(t *testing.T) {
	t.Parallel()

	path := writeManifest(t)

	cmd := execs.NewCommand(os.Environ())
	cmd.Command = "definitely-not-a-real-binary"

	v := validate.New(cmd)

	_, err := v.Validate(t.Context(), path)
	require.ErrorIs(t, err, validate.ErrValidatorUnavailable)
}

func TestCommandValidator_SilentFailure(t *testing.T) {
	t.Parallel()

	path := writeManifest(t)

	// A non-zero exit with no output gives the batch evaluator nothing to
	// report against the file, so it is an environment fault.
	cmd := execs.NewCommand(os.Environ())
	cmd.Command = "false"

	v := validate.New(cmd)

	_, err := v.Validate(t.Context(), path)
	require.Error(t, err)
}

func TestNew_DefaultCommand(t *testing.T) {
	t.Parallel()

	v := validate.New(execs.Command{})
	assert.Contains(t, v.String(), "kubeconform")
}

func TestDescribeResources(t *testing.T) {
	t.Parallel()

	data := []byte(`apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
  namespace: prod
---
apiVersion: v1
kind: Service
metadata:
  name: web
`)

	got := validate.DescribeResources(data)
	assert.Equal(t, "apps/Deployment prod/web, core/Service web", got)

	assert.Empty(t, validate.DescribeResources([]byte("\t{{invalid")))
}
