package probe_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulwagh60/actions/pkg/execs"
	"github.com/rahulwagh60/actions/pkg/probe"
)

func TestFileProber_Probe(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, os.WriteFile(path, []byte("key: value\n"), 0o600))

	// Stand in for file(1) with echo, which prints its arguments back.
	cmd := execs.NewCommand(os.Environ())
	cmd.Command = "echo"
	cmd.Args = []string{"ASCII text"}

	p := probe.New(cmd)

	label, err := p.Probe(t.Context(), path)
	require.NoError(t, err)
	assert.Contains(t, label, "ASCII text")
}

func TestFileProber_Unavailable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, os.WriteFile(path, []byte("key: value\n"), 0o600))

	cmd := execs.NewCommand(os.Environ())
	cmd.Command = "definitely-not-a-real-binary"

	p := probe.New(cmd)

	_, err := p.Probe(t.Context(), path)
	require.ErrorIs(t, err, probe.ErrProbeUnavailable)
}

func TestNew_DefaultCommand(t *testing.T) {
	t.Parallel()

	p := probe.New(execs.Command{})
	assert.Contains(t, p.String(), "file --brief")
}
