package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	shellwords "github.com/mattn/go-shellwords"

	"github.com/rahulwagh60/actions/pkg/batch"
	"github.com/rahulwagh60/actions/pkg/config"
	"github.com/rahulwagh60/actions/pkg/execs"
	"github.com/rahulwagh60/actions/pkg/log"
	"github.com/rahulwagh60/actions/pkg/probe"
	"github.com/rahulwagh60/actions/pkg/validate"
)

// CheckArgs holds the flags shared by the secrets and manifests subcommands.
type CheckArgs struct {
	*RootArgs

	Paths        []string
	ProbeCmd     string
	ValidatorCmd string
	Recursive    bool
	Watch        bool
	WriteConfig  bool
	ShowConfig   bool
}

func NewCheckArgs(rootArgs *RootArgs) *CheckArgs {
	return &CheckArgs{
		RootArgs: rootArgs,
	}
}

func (ca *CheckArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&ca.Recursive, "recursive", "r", false, "Recurse into subdirectories of directory arguments")
	cmd.Flags().BoolVarP(&ca.Watch, "watch", "w", false, "Watch for changes and re-run the check")
	cmd.Flags().StringVar(&ca.ProbeCmd, "probe-cmd", "", "Override the file-type probe command, e.g. 'file --brief'")
	cmd.Flags().StringVar(&ca.ValidatorCmd, "validator-cmd", "", "Override the schema validator command, e.g. 'kubeconform -strict'")
	cmd.Flags().BoolVar(&ca.WriteConfig, "write-config", false, "Write the default configuration file and exit")
	cmd.Flags().BoolVar(&ca.ShowConfig, "show-config", false, "Print the active configuration and exit")
}

// runCheck is the shared body of the secrets and manifests subcommands. It
// resolves configuration, collects paths, evaluates them, and renders the
// report. It returns [ErrChecksFailed] when any file fails.
func runCheck(cmd *cobra.Command, ca *CheckArgs, mode batch.Mode) error {
	ca.Paths = cmd.Flags().Args()

	cfg, configDone, err := loadConfig(cmd, ca)
	if err != nil || configDone {
		return err
	}

	err = applyOverrides(cfg, ca)
	if err != nil {
		return err
	}

	paths, err := collectPaths(cmd, ca)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	if ca.OTLPEndpoint != "" {
		shutdown, err := setupTracing(ctx, ca.OTLPEndpoint)
		if err != nil {
			return fmt.Errorf("setup tracing: %w", err)
		}

		defer func() {
			err := shutdown(context.Background())
			if err != nil {
				slog.Error("shutdown tracing", slog.Any("err", err))
			}
		}()
	}

	evaluator, err := buildEvaluator(cfg, mode)
	if err != nil {
		return err
	}

	if ca.Watch {
		return watchAndEvaluate(ctx, cmd, ca, evaluator, paths)
	}

	return evaluateOnce(ctx, cmd, ca, evaluator, paths)
}

// evaluateOnce runs one evaluation pass. Logs emitted during evaluation are
// buffered and flushed to stderr after the report, so the report stays
// readable.
func evaluateOnce(ctx context.Context, cmd *cobra.Command, ca *CheckArgs, evaluator *batch.Evaluator, paths []string) error {
	logBuf := log.NewRingBuffer(100)

	logHandler, err := log.CreateHandlerWithStrings(logBuf, ca.LogLevel, ca.LogFormat)
	if err != nil {
		return fmt.Errorf("create log handler: %w", err)
	}

	slog.SetDefault(slog.New(logHandler))

	summary, err := evaluator.Evaluate(ctx, paths)

	flushLogs(cmd.ErrOrStderr(), ca, logBuf)

	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	err = renderReport(cmd.OutOrStdout(), ca.Output, evaluator.Mode(), summary)
	if err != nil {
		return err
	}

	if summary.Status() == batch.StatusFailed {
		return ErrChecksFailed
	}

	return nil
}

// loadConfig resolves and loads the configuration. The second return value is
// true when the command should exit early, i.e. for --write-config and
// --show-config.
func loadConfig(cmd *cobra.Command, ca *CheckArgs) (*config.Config, bool, error) {
	cfg := config.NewConfig()

	var configPath string
	if ca.ConfigPath != "" {
		configPath = ca.ConfigPath
	} else {
		configPath = config.GetPath()
	}

	err := config.WriteDefaultConfig(configPath, false)
	if err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}
	if ca.WriteConfig {
		// Exit early after writing the default config.
		// Also, if there was an error, it should be fatal.
		return nil, true, err
	}

	cl, err := config.NewLoaderFromFile(configPath)
	if err != nil {
		slog.Warn("could not read config, using defaults", slog.Any("err", err))
	} else {
		err = cl.Validate()
		if err != nil {
			return nil, false, fmt.Errorf("invalid config %q: %w", configPath, err)
		}

		cfg, err = cl.Load()
		if err != nil {
			return nil, false, fmt.Errorf("invalid config %q: %w", configPath, err)
		}
	}

	if ca.ShowConfig {
		slog.Info("active configuration", slog.String("path", configPath))

		yamlBytes, err := cfg.MarshalYAML()
		if err != nil {
			return nil, true, fmt.Errorf("marshal config yaml: %w", err)
		}

		mustN(fmt.Fprint(cmd.OutOrStdout(), string(yamlBytes)))

		return nil, true, nil
	}

	return cfg, false, nil
}

// applyOverrides replaces the configured probe and validator commands with
// shell-style command strings from flags.
func applyOverrides(cfg *config.Config, ca *CheckArgs) error {
	if ca.ProbeCmd != "" {
		probeCmd, err := parseCommand(ca.ProbeCmd)
		if err != nil {
			return fmt.Errorf("parse --probe-cmd: %w", err)
		}

		cfg.Probe = probeCmd
	}

	if ca.ValidatorCmd != "" {
		validatorCmd, err := parseCommand(ca.ValidatorCmd)
		if err != nil {
			return fmt.Errorf("parse --validator-cmd: %w", err)
		}

		cfg.Validator = validatorCmd
	}

	return nil
}

func parseCommand(s string) (*execs.Command, error) {
	words, err := shellwords.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("split command: %w", err)
	}

	if len(words) == 0 {
		return nil, execs.ErrEmptyCommand
	}

	cmd := execs.NewCommand(os.Environ())
	cmd.Command = words[0]
	cmd.Args = words[1:]

	return &cmd, nil
}

func buildEvaluator(cfg *config.Config, mode batch.Mode) (*batch.Evaluator, error) {
	switch mode {
	case batch.ModeEncryption:
		p := probe.New(*cfg.Probe)

		return batch.NewEncryptionEvaluator(cfg.EncryptionClassifier(p)), nil

	case batch.ModeManifests:
		v := validate.New(*cfg.Validator)

		return batch.NewManifestEvaluator(cfg.ManifestClassifier(), v), nil
	}

	return nil, fmt.Errorf("unknown check mode %q", mode)
}

func flushLogs(w io.Writer, ca *CheckArgs, buf *log.RingBuffer) {
	slog.Debug("flush logs to console",
		slog.Int("count", buf.Len()),
		slog.Int("dropped", buf.Dropped()),
	)

	_, err := buf.WriteTo(w)
	if err != nil {
		panic(err)
	}

	// Restore console logging for anything after the report.
	logHandler, err := log.CreateHandlerWithStrings(w, ca.LogLevel, ca.LogFormat)
	if err == nil {
		slog.SetDefault(slog.New(logHandler))
	}
}
