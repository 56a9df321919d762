// Package probe wraps an external file-type identification command, file(1)
// by default, behind the [detect.Prober] contract.
package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rahulwagh60/actions/pkg/execs"
)

// ErrProbeUnavailable is returned when the probe command cannot be started,
// most commonly because the binary is not installed. Callers treat this as an
// environment fault, not a property of the file being probed.
var ErrProbeUnavailable = errors.New("file type probe unavailable")

// DefaultCommand probes with file(1). The brief flag strips the leading
// "<path>:" from the output so the label can be matched directly.
func DefaultCommand() execs.Command {
	cmd := execs.NewCommand(os.Environ())
	cmd.Command = "file"
	cmd.Args = []string{"--brief"}

	return cmd
}

// FileProber runs a configured command against a path and returns its stdout
// as the file-type label.
type FileProber struct {
	cmd execs.Command
}

// New creates a [FileProber] from a command. An empty command falls back to
// [DefaultCommand].
func New(cmd execs.Command) *FileProber {
	if cmd.Command == "" {
		cmd = DefaultCommand()
	}

	return &FileProber{cmd: cmd}
}

// Probe returns the file-type label for path.
func (p *FileProber) Probe(ctx context.Context, path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}

	executor := execs.NewExecutor(p.cmd, absPath)

	result, err := executor.Exec(ctx, filepath.Dir(absPath))
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %w", ErrProbeUnavailable, err)
		}

		return "", fmt.Errorf("probe %s: %w", path, err)
	}

	return strings.TrimSpace(result.Stdout), nil
}

func (p *FileProber) String() string {
	return p.cmd.String()
}
