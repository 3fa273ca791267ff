// Package document models a composer.json manifest as an ordered JSON tree.
//
// Values held by an Object are one of:
//
//	nil        JSON null
//	bool       JSON true/false
//	string     JSON string
//	Number     JSON number, kept as its literal text
//	List       JSON array
//	*Object    JSON object
//
// Objects remember insertion order so a manifest can be rewritten without
// shuffling keys that no rule touched.
package document

// Number is a JSON number preserved as the literal text it was parsed from.
type Number string

// List is an ordered JSON array.
type List []any

// Object is an insertion-ordered JSON object.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: map[string]any{}}
}

// Len reports how many keys the object holds.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Has reports whether key exists, even when its value is null.
func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.values[key]
	return ok
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Object returns the nested object stored under key, if the value is one.
func (o *Object) Object(key string) (*Object, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	child, ok := v.(*Object)
	return child, ok && child != nil
}

// List returns the list stored under key, if the value is one.
func (o *Object) List(key string) (List, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	list, ok := v.(List)
	return list, ok
}

// Set stores value under key. Existing keys keep their position; new keys
// are appended.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = map[string]any{}
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes key. Missing keys are ignored.
func (o *Object) Delete(key string) {
	if o == nil {
		return
	}
	if _, exists := o.values[key]; !exists {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
}

// Range calls fn for each entry in order until fn returns false.
func (o *Object) Range(fn func(key string, value any) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	clone := &Object{
		keys:   make([]string, len(o.keys)),
		values: make(map[string]any, len(o.values)),
	}
	copy(clone.keys, o.keys)
	for k, v := range o.values {
		clone.values[k] = CloneValue(v)
	}
	return clone
}

// Equal reports whether both objects hold the same keys in the same order
// with deeply equal values.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	if o == nil || other == nil {
		return o.Len() == 0 && other.Len() == 0
	}
	for i, k := range o.keys {
		if other.keys[i] != k {
			return false
		}
		if !Equal(o.values[k], other.values[k]) {
			return false
		}
	}
	return true
}

// CloneValue deep-copies any document value.
func CloneValue(v any) any {
	switch typed := v.(type) {
	case *Object:
		return typed.Clone()
	case List:
		if typed == nil {
			return List(nil)
		}
		out := make(List, len(typed))
		for i, item := range typed {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Equal compares two document values. Order matters for objects and lists.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		return ok && av.Equal(bv)
	default:
		return false
	}
}
