package rest

import (
	"bytes"
	"fmt"
	"reflect"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
)

// Requestable is a request that can be converted to a key/value mapping.
type Requestable interface {
	ToMap() (map[string]any, error)
}

// Router is implemented by requests that know their own route.
// An empty route is ignored.
type Router interface {
	Route() string
}

// KeyOrderer is implemented by requests with a meaningful key order.
// The order drives the query string and the /json/reply fallback route.
type KeyOrderer interface {
	Keys() []string
}

// Named is implemented by requests that override their reflected type name.
type Named interface {
	TypeName() string
}

// MapRequest is an ordered key/value request. It is untyped: without an
// explicit path it dispatches to /json/reply/<first-key>.
type MapRequest struct {
	keys   []string
	values map[string]any
}

var (
	_ Requestable = (*MapRequest)(nil)
	_ KeyOrderer  = (*MapRequest)(nil)
)

// NewMapRequest builds a MapRequest from alternating key/value pairs.
// Non-string keys are formatted with fmt.Sprint; a dangling key is ignored.
//
//	rest.NewMapRequest("name", "World", "lang", "en")
func NewMapRequest(kvs ...any) *MapRequest {
	m := &MapRequest{values: make(map[string]any, len(kvs)/2)}
	for i := 0; i < len(kvs)-1; i += 2 {
		key, ok := kvs[i].(string)
		if !ok {
			key = fmt.Sprint(kvs[i])
		}
		m.Set(key, kvs[i+1])
	}
	return m
}

// Set stores a value. A new key is appended; an existing key keeps its position.
func (m *MapRequest) Set(key string, value any) *MapRequest {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
	return m
}

// Get returns the value stored under key.
func (m *MapRequest) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key.
func (m *MapRequest) Delete(key string) *MapRequest {
	if _, ok := m.values[key]; !ok {
		return m
	}
	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
	return m
}

// Keys returns the keys in insertion order.
func (m *MapRequest) Keys() []string {
	return slices.Clone(m.keys)
}

// Len returns the number of keys.
func (m *MapRequest) Len() int {
	return len(m.keys)
}

// ToMap returns a copy of the mapping.
func (m *MapRequest) ToMap() (map[string]any, error) {
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = m.values[k]
	}
	return out, nil
}

// MarshalJSON encodes the mapping as a JSON object in key order.
// An empty mapping encodes as {}.
func (m *MapRequest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NamedRequest is a MapRequest dispatched as if it were a request type
// called Name: without an explicit path it routes to RouteName(Name).
type NamedRequest struct {
	*MapRequest
	Name string
}

var _ Named = (*NamedRequest)(nil)

// NewNamed wraps m as a request of type name. A nil m is an empty mapping.
func NewNamed(name string, m *MapRequest) *NamedRequest {
	if m == nil {
		m = NewMapRequest()
	}
	return &NamedRequest{MapRequest: m, Name: name}
}

// TypeName returns Name.
func (r *NamedRequest) TypeName() string {
	return r.Name
}

// TypedRequest wraps a JSON-serializable value, typically a struct DTO,
// and exposes its mapping, type name and field order.
type TypedRequest struct {
	value any
}

var (
	_ Requestable = (*TypedRequest)(nil)
	_ Named       = (*TypedRequest)(nil)
	_ KeyOrderer  = (*TypedRequest)(nil)
	_ Router      = (*TypedRequest)(nil)
)

// Typed wraps v as a typed request. The mapping is v's JSON object form,
// so json tags decide the wire names.
func Typed(v any) *TypedRequest {
	return &TypedRequest{value: v}
}

// Value returns the wrapped value.
func (r *TypedRequest) Value() any {
	return r.value
}

// ToMap converts the wrapped value through its JSON form.
func (r *TypedRequest) ToMap() (map[string]any, error) {
	if isNil(r.value) {
		return nil, fmt.Errorf("typed request wraps a nil value")
	}
	data, err := json.Marshal(r.value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.TypeName(), err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return nil, fmt.Errorf("%s does not encode to a JSON object", r.TypeName())
	}
	return m, nil
}

// TypeName reports the wrapped value's type name, or its own TypeName when it implements Named.
func (r *TypedRequest) TypeName() string {
	if n, ok := r.value.(Named); ok {
		return n.TypeName()
	}
	return typeNameOf(reflect.TypeOf(r.value))
}

// Keys returns the JSON field order of the wrapped value.
func (r *TypedRequest) Keys() []string {
	if o, ok := r.value.(KeyOrderer); ok {
		return o.Keys()
	}
	return structKeys(reflect.TypeOf(r.value))
}

// Route returns the wrapped value's own route, if it declares one.
func (r *TypedRequest) Route() string {
	if rt, ok := r.value.(Router); ok {
		return rt.Route()
	}
	return ""
}

func (r *TypedRequest) underlyingType() reflect.Type {
	return indirectType(reflect.TypeOf(r.value))
}

// typeNameOf returns the name of t after dereferencing pointers. Unnamed
// types yield "".
func typeNameOf(t reflect.Type) string {
	t = indirectType(t)
	if t == nil {
		return ""
	}
	return t.Name()
}

func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// structKeys lists the JSON names of a struct's fields in declaration order,
// descending into untagged embedded structs.
func structKeys(t reflect.Type) []string {
	t = indirectType(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" && !strings.HasPrefix(tag, "-,") {
			continue
		}
		if f.Anonymous && name == "" {
			if et := indirectType(f.Type); et.Kind() == reflect.Struct {
				keys = append(keys, structKeys(et)...)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		keys = append(keys, name)
	}
	return keys
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
