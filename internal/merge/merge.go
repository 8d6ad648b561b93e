// Package merge combines two JSON-like documents with override-wins
// semantics. Documents are map[string]any trees as produced by
// encoding/json unmarshalling into any.
package merge

// Merge returns a new document combining base and override.
// Keys present in both where both values are plain objects merge
// recursively; everywhere else the override value wins outright.
// Arrays are atomic replacement units and are never element-merged.
// Neither input is mutated; all values in the result are deep clones.
func Merge(base, override map[string]any) map[string]any {
	result := make(map[string]any, len(base)+len(override))

	for key, baseVal := range base {
		overrideVal, inOverride := override[key]
		if !inOverride {
			result[key] = Clone(baseVal)
			continue
		}

		baseDoc, baseIsDoc := baseVal.(map[string]any)
		overrideDoc, overrideIsDoc := overrideVal.(map[string]any)
		if baseIsDoc && overrideIsDoc {
			result[key] = Merge(baseDoc, overrideDoc)
			continue
		}

		result[key] = Clone(overrideVal)
	}

	for key, overrideVal := range override {
		if _, inBase := base[key]; !inBase {
			result[key] = Clone(overrideVal)
		}
	}

	return result
}

// Clone returns a deep copy of a JSON-like value.
// Scalars are returned as-is; maps and slices are copied recursively.
func Clone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		cloned := make(map[string]any, len(val))
		for k, item := range val {
			cloned[k] = Clone(item)
		}
		return cloned
	case []any:
		cloned := make([]any, len(val))
		for i, item := range val {
			cloned[i] = Clone(item)
		}
		return cloned
	default:
		return val
	}
}

// IsDocument reports whether v is a plain key-value document.
// Arrays, primitives and null are not documents; merge and diff share
// this boundary so the rendered diff matches what the merge did.
func IsDocument(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}
