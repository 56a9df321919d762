package log_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulwagh60/actions/pkg/log"
)

func TestRingBuffer_WriteTo(t *testing.T) {
	t.Parallel()

	rb := log.NewRingBuffer(3)

	for _, entry := range []string{"one\n", "two\n", "three\n"} {
		_, err := rb.Write([]byte(entry))
		require.NoError(t, err)
	}

	assert.Equal(t, 3, rb.Len())
	assert.Equal(t, 0, rb.Dropped())

	var sb strings.Builder

	n, err := rb.WriteTo(&sb)
	require.NoError(t, err)
	assert.Equal(t, int64(len("one\ntwo\nthree\n")), n)
	assert.Equal(t, "one\ntwo\nthree\n", sb.String())

	// Flushing resets the buffer.
	assert.Equal(t, 0, rb.Len())
}

func TestRingBuffer_Overwrite(t *testing.T) {
	t.Parallel()

	rb := log.NewRingBuffer(2)

	for _, entry := range []string{"one\n", "two\n", "three\n", "four\n"} {
		_, err := rb.Write([]byte(entry))
		require.NoError(t, err)
	}

	assert.Equal(t, 2, rb.Len())
	assert.Equal(t, 2, rb.Dropped())

	var sb strings.Builder

	_, err := rb.WriteTo(&sb)
	require.NoError(t, err)

	// Only the most recent entries survive, in chronological order.
	assert.Equal(t, "three\nfour\n", sb.String())
}

func TestRingBuffer_EmptyWrite(t *testing.T) {
	t.Parallel()

	rb := log.NewRingBuffer(2)

	n, err := rb.Write(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, rb.Len())
}
