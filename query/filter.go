package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ExcludePrefix marks a query parameter as an exclusion filter, e.g.
// exclude__status=draft.
const ExcludePrefix = "exclude__"

// valueDelimiter splits multi-value filter parameters.
const valueDelimiter = ","

// reservedParams are pagination/ordering/selection keywords that are never
// interpreted as filters.
var reservedParams = map[string]struct{}{
	"page":     {},
	"top":      {},
	"bottom":   {},
	"order_by": {},
	"fields":   {},
	"search":   {},
}

// Op identifies the comparison a filter clause performs.
type Op int

const (
	// OpExact matches a single value.
	OpExact Op = iota
	// OpIn matches any of a set of values.
	OpIn
	// OpExclude rejects records matching any of a set of values.
	OpExclude
)

// String returns the canonical token for the operator.
func (op Op) String() string {
	switch op {
	case OpExact:
		return "exact"
	case OpIn:
		return "in"
	case OpExclude:
		return "exclude"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// FieldType declares how values filtered against a field are validated.
type FieldType int

const (
	TypeString FieldType = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeTime
)

// FieldSet is the allow-list of filterable fields and their value types.
type FieldSet map[string]FieldType

// Fields builds a FieldSet of string-typed fields, the common case.
func Fields(names ...string) FieldSet {
	fs := make(FieldSet, len(names))
	for _, n := range names {
		fs[n] = TypeString
	}
	return fs
}

// Clause is one validated filter condition.
type Clause struct {
	Field  string
	Op     Op
	Values []string
}

// FilterSpec is the validated, canonical representation of the include/exclude
// conditions of one request. Clauses are ordered by field name then operator so
// semantically equal specs serialize identically.
type FilterSpec struct {
	Clauses []Clause
	Search  string
}

// IsZero reports whether the spec carries no conditions.
func (s FilterSpec) IsZero() bool {
	return len(s.Clauses) == 0 && s.Search == ""
}

// canonicalEscaper protects the rendering's structural characters inside
// client-supplied values. Without it a value containing clause syntax would
// forge segments and collide two different specs onto one cache key.
var canonicalEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	"{", `\{`,
	"}", `\}`,
	valueDelimiter, `\`+valueDelimiter,
)

// Canonical renders the spec in a fixed textual form suitable for key
// derivation. Reordered but semantically identical parameter sets produce the
// same output; structural characters in values are escaped so the rendering
// stays injective.
func (s FilterSpec) Canonical() string {
	if s.IsZero() {
		return "none"
	}

	parts := make([]string, 0, len(s.Clauses)+1)
	for _, c := range s.Clauses {
		escaped := make([]string, len(c.Values))
		for i, v := range c.Values {
			escaped[i] = canonicalEscaper.Replace(v)
		}
		parts = append(parts, fmt.Sprintf("%s(%s):{%s}", c.Op, c.Field, strings.Join(escaped, valueDelimiter)))
	}
	if s.Search != "" {
		parts = append(parts, fmt.Sprintf("search:{%s}", canonicalEscaper.Replace(s.Search)))
	}
	return strings.Join(parts, ";")
}

// FilterOptions configures ParseFilters.
type FilterOptions struct {
	// Allowed is the filterable field allow-list. Referencing any other field
	// in a filter-shaped parameter fails with ErrInvalidFilterField.
	Allowed FieldSet

	// SearchFields enables the search parameter. When empty, search is ignored
	// like any other unrecognized parameter.
	SearchFields []string

	// Strict rejects unknown non-reserved parameters instead of ignoring them.
	// The default tolerates unrelated parameters such as cache-busting tokens.
	Strict bool
}

// ParseFilters interprets raw query parameters as a FilterSpec.
//
// field=v produces an exact clause, field=v1,v2 a membership clause, and
// exclude__field=... an exclusion with the same value splitting. A repeated
// parameter contributes every occurrence to one clause, so name=a&name=b is
// equivalent to name=a,b. Values are trimmed, deduplicated, and empties
// dropped; a parameter left with no values contributes no clause. Parameters
// carrying the exclude prefix are always filter-shaped, so an unknown field
// there is an error even outside strict mode.
func ParseFilters(params url.Values, opts FilterOptions) (FilterSpec, error) {
	var spec FilterSpec

	for key, raws := range params {
		if _, ok := reservedParams[key]; ok {
			if key == "search" && len(opts.SearchFields) > 0 {
				spec.Search = strings.TrimSpace(params.Get(key))
			}
			continue
		}

		field, op := key, OpExact
		if strings.HasPrefix(key, ExcludePrefix) {
			field, op = key[len(ExcludePrefix):], OpExclude
		}

		ft, allowed := opts.Allowed[field]
		if !allowed {
			if op == OpExclude || opts.Strict {
				return FilterSpec{}, newParamError(ErrInvalidFilterField, key, "field %q is not filterable", field)
			}
			continue
		}

		var values []string
		for _, raw := range raws {
			values = append(values, splitValues(raw)...)
		}
		if len(values) == 0 {
			continue
		}
		for _, v := range values {
			if err := checkValue(ft, v); err != nil {
				return FilterSpec{}, newParamError(ErrInvalidFilterValue, key, "%v", err)
			}
		}

		sort.Strings(values)
		values = dedupe(values)
		if op == OpExact && len(values) > 1 {
			op = OpIn
		}
		spec.Clauses = append(spec.Clauses, Clause{Field: field, Op: op, Values: values})
	}

	sort.Slice(spec.Clauses, func(i, j int) bool {
		a, b := spec.Clauses[i], spec.Clauses[j]
		if a.Field != b.Field {
			return a.Field < b.Field
		}
		return a.Op < b.Op
	})

	return spec, nil
}

func splitValues(raw string) []string {
	var values []string
	for _, v := range strings.Split(raw, valueDelimiter) {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func checkValue(ft FieldType, v string) error {
	switch ft {
	case TypeInt:
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			return fmt.Errorf("%q is not an integer", v)
		}
	case TypeFloat:
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("%q is not a number", v)
		}
	case TypeBool:
		if _, err := strconv.ParseBool(v); err != nil {
			return fmt.Errorf("%q is not a boolean", v)
		}
	case TypeTime:
		if _, err := time.Parse(time.RFC3339, v); err != nil {
			return fmt.Errorf("%q is not an RFC 3339 timestamp", v)
		}
	}
	return nil
}
