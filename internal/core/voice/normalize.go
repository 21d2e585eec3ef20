package voice

import (
	"fmt"
	"sort"
	"strings"

	"github.com/calebowu/ghostwriter/internal/models"
)

// notSpecified is the display value for facets the analysis yielded no
// signal for.
const notSpecified = "not specified"

// profileFromPayload coerces the untrusted analysis payload into the
// fixed internal schema. Each facet may arrive as a string, a list or a
// nested mapping; none of these shapes may cause an error.
func profileFromPayload(m map[string]any) models.ExtractedProfile {
	return models.ExtractedProfile{
		Tone:      facetString(m["tone"]),
		Structure: facetString(m["structure"]),
		HookStyle: facetString(m["hook_style"]),
		CTAStyle:  facetString(m["cta_style"]),
		Themes:    facetList(m["themes"]),
		Dos:       facetList(m["dos"]),
		Donts:     facetList(m["donts"]),
		Summary:   facetString(m["summary"]),
	}
}

// facetString flattens any JSON value to a display string. Lists join
// with ", ", mappings flatten to their leaf values joined with "; ".
func facetString(v any) string {
	s := flatten(v)
	if s == "" {
		return notSpecified
	}
	return s
}

// facetList coerces any JSON value to a string slice. A scalar becomes a
// single-element list; a mapping contributes its leaf values.
func facetList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := flatten(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case map[string]any:
		out := make([]string, 0, len(t))
		for _, k := range sortedKeys(t) {
			if s := flatten(t[k]); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s := flatten(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

func flatten(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		parts := make([]string, 0, len(t))
		for _, k := range sortedKeys(t) {
			if s := flatten(t[k]); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case bool:
		return fmt.Sprintf("%t", t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// sortedKeys keeps map flattening deterministic.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
