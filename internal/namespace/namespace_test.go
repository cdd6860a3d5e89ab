package namespace

import (
	"reflect"
	"testing"
)

func TestStoreAddAndResolve(t *testing.T) {
	store := NewStore()
	store.Add("jt", "just-testing")
	store.Add("soap", "http://schemas.xmlsoap.org/soap/envelope/")

	uri, ok := store.Resolve("jt")
	if !ok || uri != "just-testing" {
		t.Fatalf("Resolve(jt) = %q, %v; want just-testing, true", uri, ok)
	}

	if _, ok := store.Resolve("missing"); ok {
		t.Error("Resolve(missing) should report absence")
	}

	// Re-adding a prefix overwrites it.
	store.Add("jt", "other-uri")
	if uri, _ := store.Resolve("jt"); uri != "other-uri" {
		t.Errorf("Resolve(jt) after re-add = %q, want other-uri", uri)
	}

	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
}

func TestStoreMapIsACopy(t *testing.T) {
	store := NewStore()
	store.Add("jt", "just-testing")

	m := store.Map()
	m["jt"] = "mutated"
	m["new"] = "entry"

	if uri, _ := store.Resolve("jt"); uri != "just-testing" {
		t.Error("mutating Map() result should not affect the store")
	}
	if _, ok := store.Resolve("new"); ok {
		t.Error("mutating Map() result should not add entries to the store")
	}
}

func TestStoreMerged(t *testing.T) {
	store := NewStore()
	store.Add("a", "uri-a")
	store.Add("b", "uri-b")

	tests := []struct {
		name      string
		overrides map[string]string
		want      map[string]string
	}{
		{
			name: "no_overrides",
			want: map[string]string{"a": "uri-a", "b": "uri-b"},
		},
		{
			name:      "override_wins",
			overrides: map[string]string{"b": "uri-b2"},
			want:      map[string]string{"a": "uri-a", "b": "uri-b2"},
		},
		{
			name:      "additional_prefix",
			overrides: map[string]string{"c": "uri-c"},
			want:      map[string]string{"a": "uri-a", "b": "uri-b", "c": "uri-c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.Merged(tt.overrides)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merged() = %v, want %v", got, tt.want)
			}
		})
	}
}
