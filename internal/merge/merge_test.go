package merge

import (
	"encoding/json"
	"reflect"
	"testing"
)

func doc(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("bad test document %s: %v", raw, err)
	}
	return m
}

func TestMerge_OverrideWins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		base     string
		override string
		want     string
	}{
		{"disjoint keys", `{"a":1}`, `{"b":2}`, `{"a":1,"b":2}`},
		{"scalar replaced", `{"a":1}`, `{"a":2}`, `{"a":2}`},
		{"nested merge", `{"a":{"x":1,"y":2}}`, `{"a":{"y":3}}`, `{"a":{"x":1,"y":3}}`},
		{"deep nested merge", `{"a":{"b":{"c":1,"d":2}}}`, `{"a":{"b":{"d":9}}}`, `{"a":{"b":{"c":1,"d":9}}}`},
		{"array replaced atomically", `{"items":["a","b"]}`, `{"items":["c"]}`, `{"items":["c"]}`},
		{"object replaced by scalar", `{"a":{"x":1}}`, `{"a":5}`, `{"a":5}`},
		{"scalar replaced by object", `{"a":5}`, `{"a":{"x":1}}`, `{"a":{"x":1}}`},
		{"null wins", `{"a":1}`, `{"a":null}`, `{"a":null}`},
		{"array of objects replaced", `{"agents":[{"id":"a"},{"id":"b"}]}`, `{"agents":[{"id":"c"}]}`, `{"agents":[{"id":"c"}]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Merge(doc(t, tt.base), doc(t, tt.override))
			want := doc(t, tt.want)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Merge() = %v, want %v", got, want)
			}
		})
	}
}

func TestMerge_Identity(t *testing.T) {
	t.Parallel()

	a := doc(t, `{"x":1,"nested":{"y":[1,2,3]}}`)

	if got := Merge(a, map[string]any{}); !reflect.DeepEqual(got, a) {
		t.Errorf("Merge(A, {}) = %v, want %v", got, a)
	}
	if got := Merge(map[string]any{}, a); !reflect.DeepEqual(got, a) {
		t.Errorf("Merge({}, A) = %v, want %v", got, a)
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	base := doc(t, `{"a":{"x":1},"list":[1,2]}`)
	override := doc(t, `{"a":{"y":2}}`)

	baseSnapshot := Clone(base).(map[string]any)
	overrideSnapshot := Clone(override).(map[string]any)

	Merge(base, override)

	if !reflect.DeepEqual(base, baseSnapshot) {
		t.Errorf("base mutated: %v, want %v", base, baseSnapshot)
	}
	if !reflect.DeepEqual(override, overrideSnapshot) {
		t.Errorf("override mutated: %v, want %v", override, overrideSnapshot)
	}
}

func TestMerge_ResultIsIndependent(t *testing.T) {
	t.Parallel()

	base := doc(t, `{"a":{"x":1},"list":[1,2]}`)
	override := doc(t, `{"b":{"y":2}}`)

	result := Merge(base, override)

	// Mutating the inputs afterwards must not affect the result.
	base["a"].(map[string]any)["x"] = 99
	base["list"].([]any)[0] = 99
	override["b"].(map[string]any)["y"] = 99

	if result["a"].(map[string]any)["x"] != float64(1) {
		t.Error("result shares nested map with base")
	}
	if result["list"].([]any)[0] != float64(1) {
		t.Error("result shares slice with base")
	}
	if result["b"].(map[string]any)["y"] != float64(2) {
		t.Error("result shares nested map with override")
	}
}

func TestMerge_RightBiasedChain(t *testing.T) {
	t.Parallel()

	a := doc(t, `{"k":"a","onlyA":1}`)
	b := doc(t, `{"k":"b","onlyB":2}`)
	c := doc(t, `{"k":"c","onlyC":3}`)

	got := Merge(Merge(a, b), c)
	want := doc(t, `{"k":"c","onlyA":1,"onlyB":2,"onlyC":3}`)

	if !reflect.DeepEqual(got, want) {
		t.Errorf("chained merge = %v, want %v", got, want)
	}
}

func TestMerge_Deterministic(t *testing.T) {
	t.Parallel()

	base := doc(t, `{"a":{"x":1},"b":[1,2],"c":"s"}`)
	override := doc(t, `{"a":{"y":2},"c":"t"}`)

	first := Merge(base, override)
	second := Merge(base, override)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated merges differ: %v vs %v", first, second)
	}
}

func TestIsDocument(t *testing.T) {
	t.Parallel()

	if !IsDocument(map[string]any{}) {
		t.Error("map should be a document")
	}
	for _, v := range []any{[]any{1}, "s", 1.5, true, nil} {
		if IsDocument(v) {
			t.Errorf("%T should not be a document", v)
		}
	}
}
