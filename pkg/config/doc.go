// Package config defines the yamlgate configuration document, its loader,
// and its embedded JSON schema.
//
// Configuration is a versioned YAML document, e.g.:
//
//	apiVersion: yamlgate.rahulwagh.dev/v1beta1
//	kind: Configuration
//	encryption:
//	  printableThreshold: 0.80
//	manifests:
//	  pathVocabulary: [k8s, kubernetes, manifests]
//	probe:
//	  command: file
//	  args: [--brief]
//	validator:
//	  command: kubeconform
//	  args: [-strict]
//
// Documents are validated against the embedded schema before decoding, so
// schema errors point at the offending line in the source.
package config
