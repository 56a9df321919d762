package cli

import (
	"github.com/spf13/cobra"

	"github.com/rahulwagh60/actions/pkg/batch"
)

const manifestsExamples = `  # Validate manifests under ./deploy:
  yamlgate manifests ./deploy

  # Recurse into subdirectories:
  yamlgate manifests ./deploy --recursive

  # Use a different validator:
  yamlgate manifests ./deploy --validator-cmd 'kubectl apply --dry-run=client -f'`

// NewManifestsCmd creates the manifests subcommand, which validates files
// that classify as Kubernetes manifests against their schemas.
func NewManifestsCmd(ca *CheckArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifests [path...]",
		Short: "Validate Kubernetes manifests against their schemas",
		Long: `Validate every file that looks like a Kubernetes manifest.

A file is treated as a manifest when its path contains a vocabulary word
(k8s, kubernetes, manifests, deployment, ...), when a configured CEL rule
matches it, or when its content declares apiVersion or kind. Files that do
not look like manifests pass without validation.`,
		Example: manifestsExamples,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, ca, batch.ModeManifests)
		},
	}

	ca.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}
