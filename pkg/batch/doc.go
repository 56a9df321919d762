// Package batch evaluates a set of files against one check mode and
// aggregates the results into a summary suitable for reporting and for
// deriving the process exit code.
package batch
