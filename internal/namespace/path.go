// Package namespace reconstructs a navigable folder tree from the flat,
// path-keyed node set. Everything here is pure: the record set stays the
// single source of truth and every derivation is recomputed from scratch.
package namespace

import "strings"

// Encode turns an ordered breadcrumb of folder names into a path key.
// An empty breadcrumb encodes the root as "/".
func Encode(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/")
}

// Split is the inverse of Encode: it yields the breadcrumb segments of a
// path key. The root splits into no segments.
func Split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "/")
}

// Join computes the absolute location of a child named name living directly
// under parentPath.
func Join(parentPath, name string) string {
	if parentPath == "/" {
		return "/" + name
	}
	return parentPath + "/" + name
}

// Within reports whether a node whose parent path is path lives inside the
// subtree rooted at location. The match is segment-aware: "/DocsBackup" is
// not within "/Docs" even though it shares the prefix.
func Within(path, location string) bool {
	return path == location || strings.HasPrefix(path, location+"/")
}

// Parent returns the path key of the directory containing location; the
// root is its own parent.
func Parent(location string) string {
	segments := Split(location)
	if len(segments) == 0 {
		return "/"
	}
	return Encode(segments[:len(segments)-1])
}

// Base returns the final segment of location, or "" for the root.
func Base(location string) string {
	segments := Split(location)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// ValidName reports whether name can be used as a node name: non-empty and
// free of the path separator. A name containing "/" would make the node's
// location collide with a genuinely nested location under another folder.
func ValidName(name string) bool {
	return name != "" && !strings.Contains(name, "/")
}

// Valid reports whether path is a well-formed key: "/" or "/"-joined
// non-empty segments with no trailing slash.
func Valid(path string) bool {
	if path == "/" {
		return true
	}
	if !strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
		return false
	}
	for _, seg := range strings.Split(path[1:], "/") {
		if strings.TrimSpace(seg) == "" {
			return false
		}
	}
	return true
}
