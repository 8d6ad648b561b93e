package diff

import (
	"encoding/json"
	"strings"
	"testing"

	"ocp/internal/merge"
)

func doc(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("bad test document %s: %v", raw, err)
	}
	return m
}

func render(t *testing.T, base, overrides string) string {
	t.Helper()
	b := doc(t, base)
	o := doc(t, overrides)
	m := merge.Merge(b, o)
	return NewRenderer("global", "project").Render(b, m, o)
}

func TestRender_ModifiedShowsBothSides(t *testing.T) {
	t.Parallel()

	out := render(t, `{"a":1}`, `{"a":2}`)

	if !strings.Contains(out, "- a: 1") {
		t.Errorf("missing removed line for base value:\n%s", out)
	}
	if !strings.Contains(out, "+ a: 2") {
		t.Errorf("missing added line for override value:\n%s", out)
	}
	if !strings.Contains(out, "(global)") {
		t.Errorf("removed line not annotated with base side:\n%s", out)
	}
	if !strings.Contains(out, "(project)") {
		t.Errorf("added line not annotated with override side:\n%s", out)
	}
}

func TestRender_IdenticalDocumentsHaveNoAnnotations(t *testing.T) {
	t.Parallel()

	raw := `{"a":1,"nested":{"b":"x","list":[1,2]}}`
	out := render(t, raw, raw)

	// Every value matches, so no line carries a side annotation. The
	// modified classification requires differing values, and added
	// requires absence from base.
	if strings.Contains(out, "(project)") || strings.Contains(out, "(global)") {
		t.Errorf("unexpected side annotation in identical diff:\n%s", out)
	}
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
			t.Errorf("unexpected change marker in identical diff: %q", line)
		}
	}
}

func TestRender_AddedKey(t *testing.T) {
	t.Parallel()

	out := render(t, `{"a":1}`, `{"b":2}`)

	if !strings.Contains(out, "+ b: 2 (project)") {
		t.Errorf("missing added line:\n%s", out)
	}
	if !strings.Contains(out, "  a: 1") {
		t.Errorf("missing unchanged line:\n%s", out)
	}
}

func TestRender_RecursesIntoNestedDocuments(t *testing.T) {
	t.Parallel()

	out := render(t, `{"agent":{"model":"small","temp":1}}`, `{"agent":{"model":"big"}}`)

	if !strings.Contains(out, "agent:") {
		t.Errorf("missing parent key header:\n%s", out)
	}
	// Nested lines are indented one level deeper.
	if !strings.Contains(out, "-   model: \"small\"") {
		t.Errorf("missing nested removed line:\n%s", out)
	}
	if !strings.Contains(out, "+   model: \"big\"") {
		t.Errorf("missing nested added line:\n%s", out)
	}
	if !strings.Contains(out, "    temp: 1") {
		t.Errorf("missing nested unchanged line:\n%s", out)
	}
}

func TestRender_ArraysNotRecursed(t *testing.T) {
	t.Parallel()

	out := render(t, `{"items":["a","b"]}`, `{"items":["c"]}`)

	// Arrays are atomic: rendered as whole-value replacement, matching
	// the merge semantics.
	if !strings.Contains(out, `- items: ["a","b"] (global)`) {
		t.Errorf("missing atomic array removal:\n%s", out)
	}
	if !strings.Contains(out, `+ items: ["c"] (project)`) {
		t.Errorf("missing atomic array addition:\n%s", out)
	}
}

func TestRender_KeysSorted(t *testing.T) {
	t.Parallel()

	out := render(t, `{"zebra":1,"apple":2}`, `{"mango":3}`)

	apple := strings.Index(out, "apple")
	mango := strings.Index(out, "mango")
	zebra := strings.Index(out, "zebra")
	if apple == -1 || mango == -1 || zebra == -1 {
		t.Fatalf("missing keys in output:\n%s", out)
	}
	if !(apple < mango && mango < zebra) {
		t.Errorf("keys not in lexicographic order:\n%s", out)
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	base := `{"a":{"x":1},"b":2,"c":[1,2,3]}`
	override := `{"a":{"y":9},"b":3}`

	first := render(t, base, override)
	second := render(t, base, override)
	if first != second {
		t.Errorf("repeated renders differ:\n%s\nvs\n%s", first, second)
	}
}

func TestFormatValue_InlineVsMultiline(t *testing.T) {
	t.Parallel()

	short := formatValue([]any{"a", "b"}, 0)
	if strings.Contains(short, "\n") {
		t.Errorf("short value should render inline, got:\n%s", short)
	}

	long := formatValue(map[string]any{
		"first":  "a long enough value to push this over",
		"second": "the inline rendering threshold for sure",
	}, 0)
	if !strings.Contains(long, "\n") {
		t.Errorf("long value should render multi-line, got: %s", long)
	}
}
