package cli

import (
	"bufio"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// collectPaths expands the positional arguments into the list of files to
// evaluate. Directory arguments contribute their YAML files, a "-" argument
// reads one path per line from stdin, and file arguments are taken as given.
// Everything is filtered to `.yaml`/`.yml` here, before classification, so
// piping `git diff --name-only` never submits unrelated files to the check.
// The result preserves argument order and deduplicates.
func collectPaths(cmd *cobra.Command, ca *CheckArgs) ([]string, error) {
	args := ca.Paths
	if len(args) == 0 {
		args = []string{"."}
	}

	var paths []string

	seen := map[string]bool{}
	add := func(p string) {
		if !isYAMLPath(p) {
			slog.Debug("skipping non-YAML path", slog.String("path", p))

			return
		}

		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		if arg == "-" {
			stdinPaths, err := readPathsFrom(cmd)
			if err != nil {
				return nil, err
			}

			for _, p := range stdinPaths {
				add(p)
			}

			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}

		if !info.IsDir() {
			add(arg)

			continue
		}

		dirPaths, err := listYAMLFiles(arg, ca.Recursive)
		if err != nil {
			return nil, err
		}

		for _, p := range dirPaths {
			add(p)
		}
	}

	return paths, nil
}

// readPathsFrom reads one path per line from the command's stdin, skipping
// blank lines.
func readPathsFrom(cmd *cobra.Command) ([]string, error) {
	var paths []string

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			paths = append(paths, line)
		}
	}

	err := scanner.Err()
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	return paths, nil
}

// listYAMLFiles returns the YAML files under dir in lexical order. Hidden
// directories are not descended into.
func listYAMLFiles(dir string, recursive bool) ([]string, error) {
	var paths []string

	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", dir, err)
		}

		for _, entry := range entries {
			if !entry.IsDir() && isYAMLPath(entry.Name()) {
				paths = append(paths, filepath.Join(dir, entry.Name()))
			}
		}

		return paths, nil
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}

			return nil
		}

		if isYAMLPath(d.Name()) {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", dir, err)
	}

	return paths, nil
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}

	return false
}
