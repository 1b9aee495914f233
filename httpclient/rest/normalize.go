package rest

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
)

// Normalized is a request reduced to what the dispatcher needs.
type Normalized struct {
	// Fields is the ordered key/value mapping sent as query or body.
	Fields *MapRequest
	// TypeName is the request's type name; empty for untyped maps.
	TypeName string
	// Route is the request's own route (Router), if any.
	Route string
	// Type is the Go type used for registered route lookups; nil for untyped maps.
	Type reflect.Type
}

// Typed reports whether the request carries a type name.
func (n *Normalized) Typed() bool {
	return n.TypeName != ""
}

// Normalize converts a request into an ordered mapping plus its routing
// hints. Accepted values are *MapRequest, any map with string keys, and any
// Requestable. Anything else is a *RequestError.
func Normalize(req any) (*Normalized, error) {
	switch r := req.(type) {
	case nil:
		return nil, newRequestError("request is nil", nil)
	case *MapRequest:
		if r == nil {
			return nil, newRequestError("request is nil", nil)
		}
		m, _ := r.ToMap()
		return &Normalized{Fields: orderedFields(m, r.keys)}, nil
	case MapRequest:
		return Normalize(&r)
	case map[string]any:
		return &Normalized{Fields: orderedFields(r, nil)}, nil
	case Requestable:
		return normalizeRequestable(r)
	}

	rv := reflect.ValueOf(req)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return &Normalized{Fields: orderedFields(m, nil)}, nil
	}

	return nil, newRequestError(
		fmt.Sprintf("%T cannot be converted to a key/value mapping; wrap it with rest.Typed or implement Requestable", req), nil)
}

func normalizeRequestable(r Requestable) (*Normalized, error) {
	if isNil(r) {
		return nil, newRequestError("request is nil", nil)
	}
	m, err := r.ToMap()
	if err != nil {
		return nil, newRequestError("convert request to mapping", err)
	}

	n := &Normalized{}

	var order []string
	if o, ok := r.(KeyOrderer); ok {
		order = o.Keys()
	} else {
		order = structKeys(reflect.TypeOf(r))
	}
	n.Fields = orderedFields(m, order)

	if named, ok := r.(Named); ok {
		n.TypeName = named.TypeName()
	} else {
		n.TypeName = typeNameOf(reflect.TypeOf(r))
	}

	if tr, ok := r.(*TypedRequest); ok {
		n.Type = tr.underlyingType()
	} else {
		n.Type = indirectType(reflect.TypeOf(r))
	}
	if n.Type != nil && n.Type.Name() == "" {
		n.Type = nil
	}

	if rt, ok := r.(Router); ok {
		n.Route = rt.Route()
	}
	return n, nil
}

// orderedFields builds a MapRequest from m: keys listed in order first,
// remaining keys sorted lexicographically.
func orderedFields(m map[string]any, order []string) *MapRequest {
	out := &MapRequest{values: make(map[string]any, len(m))}
	for _, k := range order {
		if v, ok := m[k]; ok && !slices.Contains(out.keys, k) {
			out.Set(k, v)
		}
	}
	rest := make([]string, 0, len(m)-len(out.keys))
	for k := range m {
		if _, ok := out.values[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		out.Set(k, m[k])
	}
	return out
}
