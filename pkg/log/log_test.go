package log_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulwagh60/actions/pkg/log"
)

func TestGetLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		"debug":            {input: "debug", want: slog.LevelDebug},
		"info":             {input: "info", want: slog.LevelInfo},
		"warn":             {input: "warn", want: slog.LevelWarn},
		"warning alias":    {input: "warning", want: slog.LevelWarn},
		"error":            {input: "error", want: slog.LevelError},
		"case insensitive": {input: "INFO", want: slog.LevelInfo},
		"unknown":          {input: "verbose", wantErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.GetLevel(tc.input)

			if tc.wantErr {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetFormat(t *testing.T) {
	t.Parallel()

	for _, format := range log.AllFormats {
		got, err := log.GetFormat(format)
		require.NoError(t, err)
		assert.Equal(t, log.Format(format), got)
	}

	_, err := log.GetFormat("xml")
	require.ErrorIs(t, err, log.ErrUnknownLogFormat)
}

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	h, err := log.CreateHandlerWithStrings(&buf, "debug", "json")
	require.NoError(t, err)

	logger := slog.New(h)
	logger.Debug("hello", slog.String("key", "value"))

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"key":"value"`)

	_, err = log.CreateHandlerWithStrings(&buf, "bogus", "json")
	require.ErrorIs(t, err, log.ErrInvalidArgument)
}
