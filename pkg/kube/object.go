package kube

import "strings"

// GetGroup returns the group of the resource, derived from its apiVersion.
// If the group is not set, it assumes "core".
func (r *Resource) GetGroup() string {
	if apiVersion := r.Object.GetAPIVersion(); apiVersion != "" {
		parts := strings.Split(apiVersion, "/")
		if len(parts) > 1 {
			return parts[0]
		}
	}

	return "core"
}

// GetKind returns the kind of the resource.
// If the kind is not set, it returns "<empty>".
func (r *Resource) GetKind() string {
	if kind := r.Object.GetKind(); kind != "" {
		return kind
	}

	return "<empty>"
}

// GetGroupKind returns the group and kind of the resource in the format
// `group/kind`.
func (r *Resource) GetGroupKind() string {
	return r.GetGroup() + "/" + r.GetKind()
}

// GetName returns the name of the resource.
// If the name is not set, it returns "<empty>".
func (r *Resource) GetName() string {
	if name := r.Object.GetName(); name != "" {
		return name
	}

	return "<empty>"
}

// GetNamespacedName returns `namespace/name`, or just the name for
// cluster-scoped resources.
func (r *Resource) GetNamespacedName() string {
	ns := r.Object.GetNamespace()
	name := r.GetName()
	if ns != "" {
		return ns + "/" + name
	}

	return name
}

// String identifies the resource for diagnostics, e.g.
// `apps/Deployment default/app`.
func (r *Resource) String() string {
	return r.GetGroupKind() + " " + r.GetNamespacedName()
}
