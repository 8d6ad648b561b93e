// Package diff renders a human-readable structural diff between a base
// document, a merged result, and the overrides that produced it.
package diff

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ocp/internal/merge"
)

// inlineThreshold is the max rendered width for a composite value to
// stay on one line.
const inlineThreshold = 60

const indentStep = "  "

var (
	addedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	annotationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Renderer produces annotated diff output. Labels name the two sides
// (e.g. "global" and "project") in line annotations.
type Renderer struct {
	BaseLabel     string
	OverrideLabel string
	Color         bool
}

// NewRenderer creates a Renderer for the given side labels.
// Color is off by default; callers enable it for TTY output.
func NewRenderer(baseLabel, overrideLabel string) *Renderer {
	return &Renderer{BaseLabel: baseLabel, OverrideLabel: overrideLabel}
}

// Render walks the three documents and returns the annotated text.
// Keys iterate in lexicographic order so output is deterministic.
func (r *Renderer) Render(base, merged, overrides map[string]any) string {
	var sb strings.Builder
	r.renderLevel(&sb, base, merged, overrides, 0)
	return sb.String()
}

func (r *Renderer) renderLevel(sb *strings.Builder, base, merged, overrides map[string]any, depth int) {
	for _, key := range unionKeys(base, merged, overrides) {
		baseVal, inBase := base[key]
		mergedVal, inMerged := merged[key]
		overrideVal, inOverride := overrides[key]

		// Merge is total over its inputs, so every key appears in the
		// merged document; tolerate absence anyway by showing nothing.
		if !inMerged {
			continue
		}

		switch {
		case inOverride && !inBase:
			r.writeLine(sb, "+", depth, key, mergedVal, r.OverrideLabel)

		case merge.IsDocument(baseVal) && merge.IsDocument(mergedVal):
			// Recurse into nested documents; the overrides subtree may be
			// absent when the whole subtree came from base.
			subOverrides, _ := overrideVal.(map[string]any)
			if subOverrides == nil {
				subOverrides = map[string]any{}
			}
			sb.WriteString("  ")
			sb.WriteString(strings.Repeat(indentStep, depth))
			sb.WriteString(key)
			sb.WriteString(":\n")
			r.renderLevel(sb, baseVal.(map[string]any), mergedVal.(map[string]any), subOverrides, depth+1)

		case inOverride && !equal(baseVal, overrideVal):
			r.writeLine(sb, "-", depth, key, baseVal, r.BaseLabel)
			r.writeLine(sb, "+", depth, key, overrideVal, r.OverrideLabel)

		default:
			r.writeLine(sb, " ", depth, key, mergedVal, "")
		}
	}
}

func (r *Renderer) writeLine(sb *strings.Builder, marker string, depth int, key string, value any, label string) {
	rendered := formatValue(value, depth)

	line := fmt.Sprintf("%s %s%s: %s", marker, strings.Repeat(indentStep, depth), key, rendered)
	if r.Color {
		switch marker {
		case "+":
			line = addedStyle.Render(line)
		case "-":
			line = removedStyle.Render(line)
		}
	}
	sb.WriteString(line)

	if label != "" {
		annotation := fmt.Sprintf(" (%s)", label)
		if r.Color {
			annotation = annotationStyle.Render(annotation)
		}
		sb.WriteString(annotation)
	}
	sb.WriteString("\n")
}

// formatValue pretty-prints a value. Short composites render inline on
// one line; longer ones render multi-line with nested indentation.
// json.Marshal sorts map keys, which keeps output deterministic.
func formatValue(v any, depth int) string {
	inline, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	if len(inline) <= inlineThreshold {
		return string(inline)
	}

	prefix := "  " + strings.Repeat(indentStep, depth)
	expanded, err := json.MarshalIndent(v, prefix, indentStep)
	if err != nil {
		return string(inline)
	}
	return string(expanded)
}

// equal compares two values structurally via their serialized form.
func equal(a, b any) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aj) == string(bj)
}

func unionKeys(docs ...map[string]any) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, doc := range docs {
		for key := range doc {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
