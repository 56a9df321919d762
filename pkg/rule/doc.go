// Package rule implements CEL-based file match rules. Rules extend the
// built-in manifest path vocabulary, letting a repository route additional
// files into validation (for example, kustomization files that carry no
// Kubernetes-looking path segment).
package rule
