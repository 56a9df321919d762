package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/rahulwagh60/actions/pkg/batch"
)

// debounceDelay coalesces bursts of filesystem events, e.g. editors writing a
// temp file and renaming it over the original.
const debounceDelay = 200 * time.Millisecond

// watchAndEvaluate runs the check once, then re-runs it whenever one of the
// evaluated files changes. It blocks until the context is canceled. Check
// failures are reported but do not stop watching.
func watchAndEvaluate(ctx context.Context, cmd *cobra.Command, ca *CheckArgs, evaluator *batch.Evaluator, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}

	defer func() {
		err := watcher.Close()
		if err != nil {
			slog.Error("close watcher", slog.Any("err", err))
		}
	}()

	watchedFiles := make(map[string]struct{}, len(paths))
	watchedDirs := make(map[string]struct{})

	// Watch parent directories rather than the files themselves, so renames
	// and recreations keep working.
	for _, p := range paths {
		watchedFiles[p] = struct{}{}

		dir := filepath.Dir(p)
		if _, ok := watchedDirs[dir]; ok {
			continue
		}

		err := watcher.Add(dir)
		if err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}

		watchedDirs[dir] = struct{}{}
	}

	runOnce := func() {
		err := evaluateOnce(ctx, cmd, ca, evaluator, paths)
		if err != nil && !errors.Is(err, ErrChecksFailed) {
			slog.Error("evaluate", slog.Any("err", err))
		}
	}

	runOnce()

	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if _, watched := watchedFiles[evt.Name]; !watched {
				continue
			}

			// Ignore events that are not related to file content changes.
			if evt.Has(fsnotify.Chmod) {
				continue
			}

			slog.Debug("file changed, re-running check",
				slog.String("event", evt.String()),
			)

			if debounce != nil {
				debounce.Stop()
			}

			debounce = time.AfterFunc(debounceDelay, runOnce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.Error("watch error", slog.Any("err", err))
		}
	}
}
