// Package query turns raw HTTP query parameters into validated, canonical
// filter, pagination, and field-selection specs.
//
// # Overview
//
// Three parsers cover the list-endpoint parameter surface:
//
//   - ParseFilters: field=v, field=v1,v2, exclude__field=... against an
//     allow-list of filterable fields
//   - ParsePagination: page, top/bottom, order_by
//   - ParseFieldSelection: fields=a,b projections
//
// The resulting FilterSpec and PaginationSpec are canonical: clause order,
// value order, and textual rendering are fixed, so two requests that differ
// only in parameter ordering serialize identically. Cache key derivation
// depends on that property.
//
// # Validation
//
// Unknown fields referenced by filter-shaped parameters fail with
// ErrInvalidFilterField, malformed values for typed fields with
// ErrInvalidFilterValue, and inconsistent pagination windows with
// ErrInvalidPagination. Unrelated query parameters (tracking or cache-busting
// tokens) are ignored unless FilterOptions.Strict is set.
//
// All parsers are pure and safe for concurrent use.
package query
