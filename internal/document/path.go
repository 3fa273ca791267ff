package document

import "strings"

// SplitPath turns a dotted key path such as "config.sort-packages" into its
// segments. Empty segments are dropped.
func SplitPath(path string) []string {
	parts := strings.Split(path, ".")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		segments = append(segments, part)
	}
	return segments
}

// Lookup walks nested objects along path.
func (o *Object) Lookup(path ...string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	current := o
	for _, key := range path[:len(path)-1] {
		child, ok := current.Object(key)
		if !ok {
			return nil, false
		}
		current = child
	}
	return current.Get(path[len(path)-1])
}

// SetPath stores value at path, creating intermediate objects as needed.
// An intermediate value that is not an object is replaced by an empty one.
func (o *Object) SetPath(value any, path ...string) {
	if len(path) == 0 {
		return
	}
	current := o
	for _, key := range path[:len(path)-1] {
		child, ok := current.Object(key)
		if !ok {
			child = NewObject()
			current.Set(key, child)
		}
		current = child
	}
	current.Set(path[len(path)-1], value)
}

// DeletePath removes the value at path when every parent exists.
func (o *Object) DeletePath(path ...string) {
	if len(path) == 0 {
		return
	}
	current := o
	for _, key := range path[:len(path)-1] {
		child, ok := current.Object(key)
		if !ok {
			return
		}
		current = child
	}
	current.Delete(path[len(path)-1])
}
