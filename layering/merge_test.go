package layering

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type mergeFixture struct {
	Description string             `json:"description"`
	Cases       []mergeFixtureCase `json:"cases"`
}

type mergeFixtureCase struct {
	Name   string           `json:"name"`
	Layers []map[string]any `json:"layers"`
	Expect map[string]any   `json:"expect"`
}

func loadMergeFixture(t *testing.T) mergeFixture {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "merge.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var fx mergeFixture
	if err := json.Unmarshal(data, &fx); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return fx
}

func TestMergeFromFixture(t *testing.T) {
	fx := loadMergeFixture(t)
	for _, tc := range fx.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			got := Merge(tc.Layers...)
			if !reflect.DeepEqual(tc.Expect, got) {
				t.Errorf("merged config mismatch:\nwant: %#v\n got: %#v", tc.Expect, got)
			}
		})
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	strong := map[string]any{"nested": map[string]any{"a": 1}}
	weak := map[string]any{"nested": map[string]any{"b": 2}, "list": []any{"x"}}

	merged := Merge(strong, weak)
	merged["nested"].(map[string]any)["c"] = 3
	merged["list"].([]any)[0] = "y"

	if len(strong["nested"].(map[string]any)) != 1 || len(weak["nested"].(map[string]any)) != 1 {
		t.Fatalf("inputs mutated: strong=%v weak=%v", strong, weak)
	}
	if weak["list"].([]any)[0] != "x" {
		t.Fatalf("list input mutated: %v", weak["list"])
	}
}

func TestMergeZeroInput(t *testing.T) {
	if got := Merge(); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}

func TestMergeYAMLShapedMaps(t *testing.T) {
	strong := map[string]any{"background_image": map[any]any{"field": "field_hero"}}
	weak := map[string]any{"background_image": map[string]any{"background_image_bundle": "image"}}

	got := Merge(strong, weak)
	want := map[string]any{"background_image": map[string]any{"field": "field_hero", "background_image_bundle": "image"}}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestLookup(t *testing.T) {
	config := map[string]any{"background_image": map[string]any{"field": "field_hero"}}
	if value, ok := Lookup(config, "background_image.field"); !ok || value != "field_hero" {
		t.Fatalf("unexpected lookup result %v %v", value, ok)
	}
	if _, ok := Lookup(config, "background_image.field.deeper"); ok {
		t.Fatalf("expected scalar traversal to fail")
	}
	if _, ok := Lookup(nil, "anything"); ok {
		t.Fatalf("expected nil config lookup to fail")
	}
}
