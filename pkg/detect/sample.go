package detect

import (
	"fmt"
	"os"
)

// Sample is an immutable snapshot of one file: its path and the bytes read
// from it. It is created once per file and discarded after classification.
type Sample struct {
	path string
	data []byte
}

// NewSample creates a [Sample] from bytes already in hand.
func NewSample(path string, data []byte) *Sample {
	return &Sample{path: path, data: data}
}

// CaptureSample reads path from disk and returns a [Sample].
// It rejects directories and non-regular files.
func CaptureSample(path string) (*Sample, error) {
	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		if err == nil && pathInfo.IsDir() {
			return nil, fmt.Errorf("%s: path is a directory", path)
		}
		if err == nil && !pathInfo.Mode().IsRegular() {
			return nil, fmt.Errorf("%s: not a regular file", path)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Potential file inclusion via variable.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return &Sample{path: path, data: data}, nil
}

// Path returns the file path the sample was taken from.
func (s *Sample) Path() string {
	return s.path
}

// Bytes returns the full sampled content.
func (s *Sample) Bytes() []byte {
	return s.data
}

// Head returns at most n leading bytes of the sampled content.
func (s *Sample) Head(n int) []byte {
	if n < 0 || n > len(s.data) {
		n = len(s.data)
	}

	return s.data[:n]
}

// Size returns the sampled content length in bytes.
func (s *Sample) Size() int {
	return len(s.data)
}
