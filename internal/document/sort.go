package document

import "sort"

// SortKeys returns a copy of o whose keys are ordered by less. Ties keep
// their original relative order. Values are shared with o.
func SortKeys(o *Object, less func(a, b string) bool) *Object {
	if o == nil {
		return nil
	}
	keys := o.Keys()
	sort.SliceStable(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	sorted := &Object{keys: keys, values: make(map[string]any, len(o.values))}
	for k, v := range o.values {
		sorted.values[k] = v
	}
	return sorted
}

// SortKeysAscending orders keys by plain byte comparison.
func SortKeysAscending(o *Object) *Object {
	return SortKeys(o, func(a, b string) bool { return a < b })
}

// SortList returns a copy of list sorted ascending. Strings compare by value;
// any other element compares by its compact JSON text.
func SortList(list List) List {
	if list == nil {
		return nil
	}
	type entry struct {
		key   string
		value any
	}
	entries := make([]entry, len(list))
	for i, item := range list {
		entries[i] = entry{key: sortKey(item), value: item}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	out := make(List, len(entries))
	for i, e := range entries {
		out[i] = e.value
	}
	return out
}

func sortKey(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	raw, err := Compact(v)
	if err != nil {
		return ""
	}
	return string(raw)
}
