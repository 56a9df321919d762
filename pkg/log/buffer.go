package log

import (
	"fmt"
	"io"
	"sync"
)

// RingBuffer is a thread-safe, fixed-capacity log sink that implements
// [io.Writer]. It keeps the most recent entries, dropping the oldest once
// capacity is reached. It is used to defer log output until after a check
// run completes, so diagnostics only reach the console when they matter.
type RingBuffer struct {
	entries [][]byte
	next    int
	count   int
	dropped int
	mu      sync.Mutex
}

// NewRingBuffer creates a [RingBuffer] holding up to capacity entries.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 100
	}

	return &RingBuffer{
		entries: make([][]byte, capacity),
	}
}

// Write stores p as one entry, overwriting the oldest entry when full.
// The data is copied, since handlers reuse their buffers.
func (rb *RingBuffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	entry := make([]byte, len(p))
	copy(entry, p)

	if rb.count == len(rb.entries) {
		rb.dropped++
	} else {
		rb.count++
	}

	rb.entries[rb.next] = entry
	rb.next = (rb.next + 1) % len(rb.entries)

	return len(p), nil
}

// Len returns the number of buffered entries.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	return rb.count
}

// Dropped returns the number of entries lost to overwrites.
func (rb *RingBuffer) Dropped() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	return rb.dropped
}

// Reset discards all buffered entries.
func (rb *RingBuffer) Reset() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for i := range rb.entries {
		rb.entries[i] = nil
	}

	rb.next = 0
	rb.count = 0
	rb.dropped = 0
}

// WriteTo flushes all buffered entries to w in chronological order and
// resets the buffer. It implements [io.WriterTo].
func (rb *RingBuffer) WriteTo(w io.Writer) (int64, error) {
	rb.mu.Lock()

	ordered := make([][]byte, 0, rb.count)

	start := rb.next - rb.count
	if start < 0 {
		start += len(rb.entries)
	}
	for i := range rb.count {
		ordered = append(ordered, rb.entries[(start+i)%len(rb.entries)])
	}

	rb.mu.Unlock()

	var total int64
	for _, entry := range ordered {
		n, err := w.Write(entry)
		total += int64(n)
		if err != nil {
			return total, fmt.Errorf("write entry: %w", err)
		}
	}

	rb.Reset()

	return total, nil
}
