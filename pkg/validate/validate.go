// Package validate wraps an external schema validation command, kubeconform
// by default, behind a small interface the batch evaluator consumes.
package validate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rahulwagh60/actions/pkg/execs"
	"github.com/rahulwagh60/actions/pkg/kube"
)

// ErrValidatorUnavailable is returned when the validation command cannot be
// started. Callers treat this as an environment fault and abort the run
// rather than recording it against the file.
var ErrValidatorUnavailable = errors.New("schema validator unavailable")

// Outcome is the result of validating one manifest file. Diagnostic is only
// set when Valid is false and carries the validator's own output.
type Outcome struct {
	Diagnostic string `json:"diagnostic,omitempty"`
	Valid      bool   `json:"valid"`
}

// Validator checks a manifest file against its schema. A false Outcome means
// the file is invalid; a non-nil error means validation could not be
// attempted at all.
type Validator interface {
	Validate(ctx context.Context, path string) (Outcome, error)
}

// DefaultCommand validates with kubeconform. The strict flag rejects unknown
// fields, and the summary output stays quiet on success.
func DefaultCommand() execs.Command {
	cmd := execs.NewCommand(os.Environ())
	cmd.Command = "kubeconform"
	cmd.Args = []string{"-strict", "-ignore-missing-schemas"}

	return cmd
}

// CommandValidator runs a configured command against a path. A zero exit
// means valid; a non-zero exit with output means the file failed validation;
// anything else is an environment fault.
type CommandValidator struct {
	cmd execs.Command
}

// New creates a [CommandValidator] from a command. An empty command falls
// back to [DefaultCommand].
func New(cmd execs.Command) *CommandValidator {
	if cmd.Command == "" {
		cmd = DefaultCommand()
	}

	return &CommandValidator{cmd: cmd}
}

// Validate checks the manifest at path.
func (v *CommandValidator) Validate(ctx context.Context, path string) (Outcome, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve path: %w", err)
	}

	executor := execs.NewExecutor(v.cmd, absPath)

	result, err := executor.Exec(ctx, filepath.Dir(absPath))
	if err == nil {
		return Outcome{Valid: true}, nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return Outcome{}, fmt.Errorf("%w: %w", ErrValidatorUnavailable, err)
	}

	// A non-zero exit with diagnostics on stdout or stderr is a judgment
	// about the file, not a failure of the validator itself.
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && result != nil {
		diagnostic := strings.TrimSpace(result.Stdout)
		if diagnostic == "" {
			diagnostic = strings.TrimSpace(result.Stderr)
		}

		if diagnostic != "" {
			return Outcome{Diagnostic: diagnostic}, nil
		}
	}

	return Outcome{}, fmt.Errorf("validate %s: %w", path, err)
}

func (v *CommandValidator) String() string {
	return v.cmd.String()
}

// DescribeResources summarizes the Kubernetes objects in a manifest, for use
// in diagnostics. Unparseable content yields an empty string.
func DescribeResources(data []byte) string {
	resources, err := kube.SplitYAML(data)
	if err != nil {
		return ""
	}

	names := make([]string, 0, len(resources))
	for _, r := range resources {
		names = append(names, r.String())
	}

	return strings.Join(names, ", ")
}
