package element

import (
	"strconv"
	"strings"
)

// Value is a single annotation member value. It holds one of string, bool,
// int64, float64, Annotation or []Value.
type Value any

// Annotation is a declared annotation: its simple name and member values.
// The unnamed member of a single-value annotation is stored under "value".
type Annotation struct {
	Name   string
	Values map[string]Value
}

// NewAnnotation creates an annotation with the given simple name. A qualified
// name is reduced to its last segment.
func NewAnnotation(name string, values map[string]Value) Annotation {
	if values == nil {
		values = map[string]Value{}
	}
	return Annotation{Name: SimpleName(name), Values: values}
}

// SimpleName strips a package qualifier from a type or annotation name.
func SimpleName(name string) string {
	name = strings.TrimPrefix(strings.TrimSpace(name), "@")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Has reports whether the member was declared.
func (a Annotation) Has(key string) bool {
	_, ok := a.Values[key]
	return ok
}

// String returns the member as a string. A one-element array is unwrapped.
func (a Annotation) String(key string) string {
	s, _ := a.StringOK(key)
	return s
}

// StringOK returns the member as a string and whether it was declared.
func (a Annotation) StringOK(key string) (string, bool) {
	v, ok := a.Values[key]
	if !ok {
		return "", false
	}
	return scalarString(v)
}

// Strings returns the member as a string slice. A single value is promoted to
// a one-element slice.
func (a Annotation) Strings(key string) []string {
	v, ok := a.Values[key]
	if !ok {
		return nil
	}
	var out []string
	for _, item := range asList(v) {
		if s, ok := scalarString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// Bool returns the member as a bool, false when absent.
func (a Annotation) Bool(key string) bool {
	v, ok := a.Values[key]
	if !ok {
		return false
	}
	switch b := unwrapSingle(v).(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(b)
		return err == nil && parsed
	}
	return false
}

// Nested returns the member as a nested annotation.
func (a Annotation) Nested(key string) (Annotation, bool) {
	v, ok := a.Values[key]
	if !ok {
		return Annotation{}, false
	}
	n, ok := unwrapSingle(v).(Annotation)
	return n, ok
}

// NestedAll returns the member as a list of nested annotations.
func (a Annotation) NestedAll(key string) []Annotation {
	v, ok := a.Values[key]
	if !ok {
		return nil
	}
	var out []Annotation
	for _, item := range asList(v) {
		if n, ok := item.(Annotation); ok {
			out = append(out, n)
		}
	}
	return out
}

func asList(v Value) []Value {
	if list, ok := v.([]Value); ok {
		return list
	}
	return []Value{v}
}

func unwrapSingle(v Value) Value {
	if list, ok := v.([]Value); ok && len(list) == 1 {
		return list[0]
	}
	return v
}

func scalarString(v Value) (string, bool) {
	switch s := unwrapSingle(v).(type) {
	case string:
		return s, true
	case bool:
		return strconv.FormatBool(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	}
	return "", false
}
