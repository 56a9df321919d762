// Package kube provides a minimal model of Kubernetes manifest documents:
// splitting multi-document YAML into resources and naming them for
// diagnostics.
package kube
