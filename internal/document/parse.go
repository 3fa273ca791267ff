package document

import (
	"errors"

	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidJSON is returned when the input is not well-formed JSON.
	ErrInvalidJSON = errors.New("document: invalid JSON")
	// ErrNotObject is returned when the JSON root is not an object.
	ErrNotObject = errors.New("document: root is not a JSON object")
)

// Parse decodes a JSON object, keeping key order at every level.
func Parse(data []byte) (*Object, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, ErrNotObject
	}
	return parseObject(root), nil
}

func parseObject(result gjson.Result) *Object {
	obj := NewObject()
	result.ForEach(func(key, value gjson.Result) bool {
		obj.Set(key.String(), parseValue(value))
		return true
	})
	return obj
}

func parseValue(result gjson.Result) any {
	switch result.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return Number(result.Raw)
	case gjson.String:
		return result.String()
	}
	if result.IsArray() {
		list := List{}
		result.ForEach(func(_, item gjson.Result) bool {
			list = append(list, parseValue(item))
			return true
		})
		return list
	}
	return parseObject(result)
}
