package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagToEnvName(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		flagName string
		want     string
	}{
		"simple":      {flagName: "config", want: "YAMLGATE_CONFIG"},
		"with dashes": {flagName: "log-level", want: "YAMLGATE_LOG_LEVEL"},
		"multi dash":  {flagName: "validator-cmd", want: "YAMLGATE_VALIDATOR_CMD"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, flagToEnvName(tc.flagName))
		})
	}
}

func TestBindEnvVars(t *testing.T) {
	t.Setenv("YAMLGATE_LOG_LEVEL", "debug")

	cmd := &cobra.Command{Use: "yamlgate"}

	var logLevel string

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level")

	bindEnvVars(cmd)

	assert.Equal(t, "debug", logLevel)
	// Usage mentions the environment variable.
	flag := cmd.Flags().Lookup("log-level")
	require.NotNil(t, flag)
	assert.Contains(t, flag.Usage, "$YAMLGATE_LOG_LEVEL")
}

func TestBindEnvVars_FlagTakesPrecedence(t *testing.T) {
	t.Setenv("YAMLGATE_OUTPUT", "json")

	cmd := &cobra.Command{Use: "yamlgate"}

	var output string

	cmd.Flags().StringVar(&output, "output", "text", "Report format")
	require.NoError(t, cmd.Flags().Set("output", "text"))

	bindEnvVars(cmd)

	assert.Equal(t, "text", output)
}
