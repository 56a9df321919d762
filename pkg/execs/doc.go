// Package execs provides utilities for executing external commands, as
// defined by configuration.
//
// It backs the external collaborators of the check engine: the file-type
// probe and the manifest schema validator are both plain commands described
// by an [Command] and executed via an [Executor].
package execs
