package batch

import "github.com/rahulwagh60/actions/pkg/detect"

// Status is the overall outcome of a batch run.
type Status string

const (
	// StatusPassed means every evaluated file passed.
	StatusPassed Status = "Passed"

	// StatusFailed means at least one file failed.
	StatusFailed Status = "Failed"

	// StatusNoFiles means nothing matched the check, which is not a failure.
	StatusNoFiles Status = "NoFiles"
)

// Failure records one failing file with the evidence that selected it and
// the diagnostic explaining the failure.
type Failure struct {
	Path       string        `json:"path"`
	Reason     detect.Reason `json:"reason"`
	Diagnostic string        `json:"diagnostic,omitempty"`
}

// Summary aggregates one batch run. Passing, Failing, and Skipped partition
// the input paths, in input order within each list. Total counts the files
// that were actually evaluated; skipped files are recorded but not counted.
type Summary struct {
	Passing []string  `json:"passing"`
	Failing []Failure `json:"failing"`
	Skipped []string  `json:"skipped"`
	Total   int       `json:"total"`
	Matched int       `json:"matched"`
}

// Passed returns the number of passing files.
func (s *Summary) Passed() int {
	return len(s.Passing)
}

// Failed returns the number of failing files.
func (s *Summary) Failed() int {
	return len(s.Failing)
}

// Status derives the overall outcome. A batch where nothing matched the
// check is NoFiles, not Passed, even when unmatched files landed in the
// passing list. Skipped files never affect the status.
func (s *Summary) Status() Status {
	if len(s.Failing) > 0 {
		return StatusFailed
	}

	if s.Matched == 0 {
		return StatusNoFiles
	}

	return StatusPassed
}
