package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rahulwagh60/actions/pkg/log"
)

const (
	cmdName = "yamlgate"
	cmdDesc = `CI gatekeeper for YAML files: encrypted secrets and valid Kubernetes manifests.`

	cmdExamples = `  # Check that secret files are encrypted:
  yamlgate secrets ./secrets

  # Validate Kubernetes manifests:
  yamlgate manifests ./deploy

  # Read paths from stdin (one per line):
  git diff --name-only | yamlgate secrets -

  # Watch for changes and re-run:
  yamlgate manifests ./deploy --watch

  # Emit a machine-readable summary:
  yamlgate secrets ./secrets --output json`
)

type RootArgs struct {
	LogLevel     string
	LogFormat    string
	ConfigPath   string
	Output       string
	OTLPEndpoint string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the yamlgate configuration file")
	cmd.PersistentFlags().
		StringVarP(&ra.Output, "output", "o", "text", fmt.Sprintf("Report format, one of: %s", allOutputs))
	cmd.PersistentFlags().
		StringVar(&ra.OTLPEndpoint, "otlp-endpoint", "", "OTLP gRPC endpoint for trace export")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(allOutputs, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Example:           cmdExamples,
		PersistentPreRunE: setupLogging(args),
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	args.AddFlags(cmd)
	cmd.AddCommand(
		NewSecretsCmd(NewCheckArgs(args)),
		NewManifestsCmd(NewCheckArgs(args)),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(rc *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), rc.LogLevel, rc.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		return nil
	}
}
