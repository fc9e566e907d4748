package query

import (
	"net/url"
	"sort"
	"strings"
)

// ParseFieldSelection interprets the fields parameter as a sorted field
// projection. Names outside the allow-list are dropped; a nil allow-list
// permits every field. The result is nil when no selection survives, which
// callers treat as "all fields".
func ParseFieldSelection(params url.Values, allowed []string) []string {
	values := splitValues(params.Get("fields"))
	if len(values) == 0 {
		return nil
	}

	if allowed != nil {
		permitted := make(map[string]struct{}, len(allowed))
		for _, f := range allowed {
			permitted[f] = struct{}{}
		}
		kept := values[:0]
		for _, f := range values {
			if _, ok := permitted[f]; ok {
				kept = append(kept, f)
			}
		}
		values = kept
	}

	if len(values) == 0 {
		return nil
	}
	sort.Strings(values)
	return dedupe(values)
}

func dedupe(sorted []string) []string {
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// FieldsKey renders a field selection for cache key segments.
func FieldsKey(fields []string) string {
	if len(fields) == 0 {
		return "all"
	}
	return strings.Join(fields, valueDelimiter)
}
