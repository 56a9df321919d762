package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulwagh60/actions/pkg/batch"
	"github.com/rahulwagh60/actions/pkg/detect"
)

func sampleSummary() *batch.Summary {
	return &batch.Summary{
		Total:   3,
		Matched: 3,
		Passing: []string{"a.yaml", "b.yaml"},
		Failing: []batch.Failure{
			{Path: "c.yaml", Reason: detect.ReasonNone, Diagnostic: "content is not encrypted"},
		},
		Skipped: []string{"d.yaml"},
	}
}

func TestRenderReport_Text(t *testing.T) {
	t.Parallel()

	var sb strings.Builder

	err := renderReport(&sb, OutputText, batch.ModeEncryption, sampleSummary())
	require.NoError(t, err)

	out := sb.String()
	assert.Contains(t, out, "encryption: Failed")
	assert.Contains(t, out, "3 files checked, 3 matched, 2 passed, 1 failed, 1 skipped")
	assert.Contains(t, out, "c.yaml [None]")
	assert.Contains(t, out, "content is not encrypted")
	assert.Contains(t, out, "d.yaml skipped")
}

func TestRenderReport_JSON(t *testing.T) {
	t.Parallel()

	var sb strings.Builder

	err := renderReport(&sb, OutputJSON, batch.ModeManifests, sampleSummary())
	require.NoError(t, err)

	var got jsonReport

	require.NoError(t, json.Unmarshal([]byte(sb.String()), &got))
	assert.Equal(t, batch.ModeManifests, got.Mode)
	assert.Equal(t, batch.StatusFailed, got.Status)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 3, got.Summary.Total)
	assert.Len(t, got.Summary.Failing, 1)
}

func TestRenderReport_UnknownFormat(t *testing.T) {
	t.Parallel()

	var sb strings.Builder

	err := renderReport(&sb, "xml", batch.ModeEncryption, sampleSummary())
	require.Error(t, err)
}

func TestRenderReport_SingularFile(t *testing.T) {
	t.Parallel()

	var sb strings.Builder

	summary := &batch.Summary{Total: 1, Matched: 1, Passing: []string{"a.yaml"}}

	err := renderReport(&sb, OutputText, batch.ModeEncryption, summary)
	require.NoError(t, err)

	assert.Contains(t, sb.String(), "encryption: Passed")
	assert.Contains(t, sb.String(), "1 file checked")
}
