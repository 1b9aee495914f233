package rest

import (
	"errors"
	"reflect"
	"testing"
)

type Profile struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Tags  []string `json:"tags"`
	Email string   `json:"email,omitempty"`
}

// loadedProfile accepts either "name" or "fullName".
type loadedProfile struct {
	Name string
}

func (p *loadedProfile) FromMap(m map[string]any) error {
	for _, key := range []string{"name", "fullName"} {
		if v, ok := m[key].(string); ok {
			p.Name = v
			return nil
		}
	}
	return errors.New("no name")
}

func TestMaterialize_Struct(t *testing.T) {
	payload := map[string]any{"id": float64(3), "name": "Ann", "tags": []any{"a", "b"}, "extra": true}
	got, err := Materialize[Profile](payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Profile{ID: 3, Name: "Ann", Tags: []string{"a", "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	ptr, err := Materialize[*Profile](payload)
	if err != nil || ptr == nil || ptr.Name != "Ann" {
		t.Errorf("unexpected pointer result %+v, %v", ptr, err)
	}
}

func TestMaterialize_MapLoader(t *testing.T) {
	got, err := Materialize[loadedProfile](map[string]any{"fullName": "Ann Lee"})
	if err != nil || got.Name != "Ann Lee" {
		t.Errorf("unexpected result %+v, %v", got, err)
	}

	ptr, err := Materialize[*loadedProfile](map[string]any{"name": "Bo"})
	if err != nil || ptr == nil || ptr.Name != "Bo" {
		t.Errorf("unexpected pointer result %+v, %v", ptr, err)
	}

	_, err = Materialize[loadedProfile](map[string]any{})
	var de *DecodeError
	if !errors.As(err, &de) || de.Target != "rest.loadedProfile" {
		t.Errorf("expected decode error for loader failure, got %v", err)
	}
}

func TestMaterialize_Passthrough(t *testing.T) {
	m := map[string]any{"a": float64(1)}
	got, err := Materialize[map[string]any](m)
	if err != nil || !reflect.DeepEqual(got, m) {
		t.Errorf("unexpected result %v, %v", got, err)
	}

	anyVal, err := Materialize[any]("text")
	if err != nil || anyVal != "text" {
		t.Errorf("unexpected result %v, %v", anyVal, err)
	}
}

func TestMaterialize_Conversions(t *testing.T) {
	list, err := Materialize[[]Profile]([]any{map[string]any{"id": float64(1)}, map[string]any{"id": float64(2)}})
	if err != nil || len(list) != 2 || list[1].ID != 2 {
		t.Errorf("unexpected list %+v, %v", list, err)
	}

	n, err := Materialize[int](float64(42))
	if err != nil || n != 42 {
		t.Errorf("unexpected number %d, %v", n, err)
	}

	zero, err := Materialize[Profile](nil)
	if err != nil || !reflect.DeepEqual(zero, Profile{}) {
		t.Errorf("nil payload should give the zero value, got %+v, %v", zero, err)
	}
}

func TestMaterialize_Mismatch(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		run     func(any) error
	}{
		{"string into struct", "nope", func(p any) error { _, err := Materialize[Profile](p); return err }},
		{"mapping into slice", map[string]any{"id": 1.0}, func(p any) error { _, err := Materialize[[]Profile](p); return err }},
		{"bad field type", map[string]any{"id": "three"}, func(p any) error { _, err := Materialize[Profile](p); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run(tt.payload)
			if !IsDecodeError(err) {
				t.Errorf("expected *DecodeError, got %v", err)
			}
			if errors.Unwrap(err) == nil {
				t.Errorf("decode error should carry its cause, got %v", err)
			}
		})
	}
}
