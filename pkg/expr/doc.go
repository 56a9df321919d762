// Package expr wraps CEL environment creation and compilation, and provides
// the path helper functions available to match expressions.
package expr
