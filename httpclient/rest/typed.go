package rest

import (
	"context"
	"net/http"
	"reflect"

	json "github.com/goccy/go-json"
)

// MapLoader is implemented by response types that map their own fields
// from a decoded payload, e.g. to accept several spellings of a key.
type MapLoader interface {
	FromMap(m map[string]any) error
}

// Get dispatches req as GET and materializes the payload as T.
func Get[T any](ctx context.Context, c *Client, req any, opts ...CallOption) (T, error) {
	return Send[T](ctx, c, http.MethodGet, req, opts...)
}

// Delete dispatches req as DELETE and materializes the payload as T.
func Delete[T any](ctx context.Context, c *Client, req any, opts ...CallOption) (T, error) {
	return Send[T](ctx, c, http.MethodDelete, req, opts...)
}

// Post dispatches req as POST and materializes the payload as T.
func Post[T any](ctx context.Context, c *Client, req any, opts ...CallOption) (T, error) {
	return Send[T](ctx, c, http.MethodPost, req, opts...)
}

// Put dispatches req as PUT and materializes the payload as T.
func Put[T any](ctx context.Context, c *Client, req any, opts ...CallOption) (T, error) {
	return Send[T](ctx, c, http.MethodPut, req, opts...)
}

// Patch dispatches req as PATCH and materializes the payload as T.
func Patch[T any](ctx context.Context, c *Client, req any, opts ...CallOption) (T, error) {
	return Send[T](ctx, c, http.MethodPatch, req, opts...)
}

// Send dispatches req with method and materializes the payload as T.
func Send[T any](ctx context.Context, c *Client, method string, req any, opts ...CallOption) (T, error) {
	res, err := c.Do(ctx, method, req, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	out, err := Materialize[T](res.Payload)
	if err != nil {
		if de, ok := err.(*DecodeError); ok {
			de.StatusCode = res.StatusCode
			de.Body = res.Body
		}
		return out, err
	}
	return out, nil
}

// Materialize converts a decoded payload into T.
//
// A payload that already is a T is returned as-is. A mapping is handed to
// FromMap when T (or *T) implements MapLoader, otherwise it is converted
// through JSON using T's json tags. A nil payload yields the zero T.
// Failures are *DecodeError.
func Materialize[T any](payload any) (T, error) {
	var out T
	if payload == nil {
		return out, nil
	}
	if v, ok := payload.(T); ok {
		return v, nil
	}

	if m, ok := payload.(map[string]any); ok {
		if loader, ok := newLoader[T](&out); ok {
			if err := loader.load(m); err != nil {
				return out, &DecodeError{Target: targetName[T](), Err: err}
			}
			return loader.value(), nil
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return out, &DecodeError{Target: targetName[T](), Err: err}
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, &DecodeError{Target: targetName[T](), Err: err}
	}
	return out, nil
}

type mapLoader[T any] struct {
	target MapLoader
	value  func() T
}

func (l mapLoader[T]) load(m map[string]any) error {
	return l.target.FromMap(m)
}

// newLoader finds a MapLoader for T: *T when it implements the interface,
// or a freshly allocated element when T itself is a pointer type.
func newLoader[T any](out *T) (mapLoader[T], bool) {
	if ml, ok := any(out).(MapLoader); ok {
		return mapLoader[T]{target: ml, value: func() T { return *out }}, true
	}
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Pointer {
		return mapLoader[T]{}, false
	}
	elem := reflect.New(t.Elem())
	ml, ok := elem.Interface().(MapLoader)
	if !ok {
		return mapLoader[T]{}, false
	}
	return mapLoader[T]{target: ml, value: func() T { return elem.Interface().(T) }}, true
}

func targetName[T any]() string {
	return reflect.TypeFor[T]().String()
}
