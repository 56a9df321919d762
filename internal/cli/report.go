package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"
	"golang.org/x/term"

	"github.com/rahulwagh60/actions/pkg/batch"
)

const (
	OutputText = "text"
	OutputJSON = "json"
)

var allOutputs = []string{OutputText, OutputJSON}

var (
	passedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// jsonReport is the machine-readable report envelope.
type jsonReport struct {
	Mode    batch.Mode     `json:"mode"`
	Status  batch.Status   `json:"status"`
	Summary *batch.Summary `json:"summary"`
}

func renderReport(w io.Writer, format string, mode batch.Mode, summary *batch.Summary) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(jsonReport{
			Mode:    mode,
			Status:  summary.Status(),
			Summary: summary,
		})
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}

		return nil

	case OutputText:
		renderTextReport(w, mode, summary)

		return nil
	}

	return fmt.Errorf("unknown output format %q, must be one of: %s", format, allOutputs)
}

func renderTextReport(w io.Writer, mode batch.Mode, summary *batch.Summary) {
	color := term.IsTerminal(int(os.Stdout.Fd()))

	status := string(summary.Status())
	if color {
		switch summary.Status() {
		case batch.StatusFailed:
			status = failedStyle.Render(status)
		case batch.StatusPassed:
			status = passedStyle.Render(status)
		case batch.StatusNoFiles:
			status = mutedStyle.Render(status)
		}
	}

	mustN(fmt.Fprintf(w, "%s: %s\n", mode, status))
	mustN(fmt.Fprintf(w, "  %s checked, %d matched, %d passed, %d failed, %d skipped\n",
		english.Plural(summary.Total, "file", ""),
		summary.Matched,
		summary.Passed(),
		summary.Failed(),
		len(summary.Skipped),
	))

	if len(summary.Failing) > 0 {
		mustN(fmt.Fprintln(w))

		for _, f := range summary.Failing {
			line := fmt.Sprintf("  %s [%s]", f.Path, f.Reason)
			if color {
				line = failedStyle.UnsetBold().Render(line)
			}

			mustN(fmt.Fprintln(w, line))

			if f.Diagnostic != "" {
				diag := "    " + f.Diagnostic
				if color {
					diag = mutedStyle.Render(diag)
				}

				mustN(fmt.Fprintln(w, diag))
			}
		}
	}

	if len(summary.Skipped) > 0 {
		mustN(fmt.Fprintln(w))

		for _, p := range summary.Skipped {
			line := fmt.Sprintf("  %s skipped", p)
			if color {
				line = mutedStyle.Render(line)
			}

			mustN(fmt.Fprintln(w, line))
		}
	}
}
