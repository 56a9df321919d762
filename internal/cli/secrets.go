package cli

import (
	"github.com/spf13/cobra"

	"github.com/rahulwagh60/actions/pkg/batch"
)

const secretsExamples = `  # Check every YAML file under ./secrets:
  yamlgate secrets ./secrets

  # Check specific files:
  yamlgate secrets vault.yaml sops-prod.yaml

  # Check paths from stdin:
  git diff --name-only --cached | yamlgate secrets -`

// NewSecretsCmd creates the secrets subcommand, which requires every checked
// file's content to be encrypted.
func NewSecretsCmd(ca *CheckArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secrets [path...]",
		Short: "Check that secret files are encrypted",
		Long: `Check that every given file's content is encrypted.

A file passes when an external file-type probe labels it as non-text data,
when its content carries a known encryption marker (ansible-vault, SOPS,
PGP), or when too few of its leading bytes are printable. Plaintext files
fail the check.`,
		Example: secretsExamples,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, ca, batch.ModeEncryption)
		},
	}

	ca.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}
