package detect

// Reason enumerates the kinds of evidence a classifier can report.
type Reason string

const (
	// ReasonNone means no heuristic matched.
	ReasonNone Reason = "None"

	// ReasonFileTypeSignature means an external file-type probe labeled the
	// content as binary-like data.
	ReasonFileTypeSignature Reason = "FileTypeSignature"

	// ReasonContentMarker means the content carried a known encryption
	// marker.
	ReasonContentMarker Reason = "ContentMarker"

	// ReasonLowPrintableRatio means the sampled content had too few
	// printable bytes to be plain text.
	ReasonLowPrintableRatio Reason = "LowPrintableRatio"

	// ReasonPathPattern means the file path matched the manifest vocabulary
	// or a configured match rule.
	ReasonPathPattern Reason = "PathPattern"

	// ReasonFieldPresence means the file content contained a Kubernetes
	// manifest field.
	ReasonFieldPresence Reason = "FieldPresence"
)

// Verdict is the result of classifying a single file. Positive means
// Encrypted for the encryption classifier and Manifest for the manifest
// classifier. Reason names the first heuristic that matched, for diagnostic
// purposes only; it never changes the outcome.
type Verdict struct {
	Reason   Reason `json:"reason"`
	Positive bool   `json:"positive"`
}

func positive(reason Reason) Verdict {
	return Verdict{Positive: true, Reason: reason}
}

func negative() Verdict {
	return Verdict{Reason: ReasonNone}
}
