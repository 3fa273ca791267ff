package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/pretty"
)

// Indent is the indentation unit used when writing manifests.
const Indent = "    "

var prettyOptions = &pretty.Options{
	// Width 0 keeps every array expanded, one element per line.
	Width:  0,
	Prefix: "",
	Indent: Indent,
}

// Encode serializes obj in the manifest layout: four-space indentation,
// slashes and non-ASCII text left unescaped, and exactly one trailing
// newline.
func Encode(obj *Object) ([]byte, error) {
	compact, err := Compact(obj)
	if err != nil {
		return nil, err
	}
	out := pretty.PrettyOptions(compact, prettyOptions)
	out = bytes.TrimRight(out, "\n")
	return append(out, '\n'), nil
}

// Compact serializes any document value without insignificant whitespace.
func Compact(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	switch typed := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if typed {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case string:
		return writeString(buf, typed)
	case Number:
		if !json.Valid([]byte(typed)) {
			return fmt.Errorf("document: invalid number literal %q", string(typed))
		}
		buf.WriteString(string(typed))
	case List:
		buf.WriteByte('[')
		for i, item := range typed {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Object:
		buf.WriteByte('{')
		var err error
		first := true
		typed.Range(func(key string, value any) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err = writeString(buf, key); err != nil {
				return false
			}
			buf.WriteByte(':')
			err = writeValue(buf, value)
			return err == nil
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("document: unsupported value type %T", v)
	}
	return nil
}

// writeString quotes s the way composer writes manifests. HTML escaping is
// off so "<", ">" and "&" survive untouched; "/" is never escaped.
func writeString(buf *bytes.Buffer, s string) error {
	var scratch bytes.Buffer
	enc := json.NewEncoder(&scratch)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("document: encode string: %w", err)
	}
	buf.Write(bytes.TrimRight(scratch.Bytes(), "\n"))
	return nil
}
