// Package detect implements the file classification engine: deciding
// whether a YAML file looks like a Kubernetes manifest, and whether a file's
// content is encrypted.
//
// Both classifiers are pure given a file's bytes plus an optional external
// file-type probe result, and produce a [Verdict] naming the evidence that
// decided the outcome.
package detect
