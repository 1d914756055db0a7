package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidPayload is returned when the top-level payload structure cannot be rendered at all.
var ErrInvalidPayload = errors.New("invalid report payload")

// Object is a JSON object that keeps its keys in document order.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set adds or replaces a key. New keys are appended to the key order.
func (o *Object) Set(key string, value any) *Object {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

// Get returns the raw value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in document order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// MarshalJSON keeps document order when an object is written back out.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object preserving key order. Numbers stay as json.Number.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return err
	}
	obj, ok := v.(*Object)
	if !ok {
		return fmt.Errorf("expected JSON object, got %T", v)
	}
	*o = *obj
	return nil
}

// Payload is the canonical provider response handed to the renderer.
type Payload struct {
	Root *Object
}

// Results returns the top-level Results mapping.
func (p *Payload) Results() *Object {
	if p == nil {
		return nil
	}
	return Get(p.Root, "Results").Object()
}

// DecodePayload validates the structure of raw and decodes it keeping key order.
func DecodePayload(raw []byte) (*Payload, error) {
	if err := ValidatePayload(raw); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	root, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: top level is not an object", ErrInvalidPayload)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after payload", ErrInvalidPayload)
	}
	return &Payload{Root: root}, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			list := make([]any, 0)
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	default:
		return t, nil
	}
}

// Value is the result of a lookup: either Present with a value or Absent.
// JSON null counts as Absent.
type Value struct {
	v  any
	ok bool
}

// Present wraps v; a nil v is Absent.
func Present(v any) Value {
	return Value{v: v, ok: v != nil}
}

// Absent is the empty lookup result.
func Absent() Value {
	return Value{}
}

func (v Value) Present() bool { return v.ok }

func (v Value) Raw() any { return v.v }

// Object returns the value as an object, or nil.
func (v Value) Object() *Object {
	obj, _ := v.v.(*Object)
	return obj
}

// List returns the value as a list, or nil.
func (v Value) List() []any {
	list, _ := v.v.([]any)
	return list
}

// String returns the trimmed string form of scalar values.
func (v Value) String() string {
	switch t := v.v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	}
	return ""
}

// Bool reports a boolean value and whether the value was a boolean at all.
func (v Value) Bool() (bool, bool) {
	b, ok := v.v.(bool)
	return b, ok
}

// Get walks obj along path. Each element may itself be dotted.
func Get(obj *Object, path ...string) Value {
	var cur any = obj
	for _, p := range path {
		for _, key := range SplitPath(p) {
			o, ok := cur.(*Object)
			if !ok || o == nil {
				return Absent()
			}
			next, ok := o.Get(key)
			if !ok {
				return Absent()
			}
			cur = next
		}
	}
	if o, ok := cur.(*Object); ok && o == nil {
		return Absent()
	}
	return Present(cur)
}

// First returns the first present lookup among the candidate paths.
func First(obj *Object, candidates ...string) Value {
	for _, c := range candidates {
		if v := Get(obj, c); v.Present() {
			return v
		}
	}
	return Absent()
}

// JoinPath appends key to a dotted base path.
func JoinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

// SplitPath splits a dotted path into keys.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Leaf returns the last key of a dotted path.
func Leaf(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// IsEmpty reports whether a raw value carries nothing worth rendering.
// Zero and false are not empty.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []any:
		return len(t) == 0
	case *Object:
		return t.Len() == 0
	}
	return false
}
