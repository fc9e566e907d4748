package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Mode selects which pagination style a request uses. Exactly one mode is
// active per request.
type Mode int

const (
	// ModePage is 1-indexed page/size pagination.
	ModePage Mode = iota
	// ModeRange is half-open [Top, Bottom) offset pagination.
	ModeRange
)

// OrderTerm is one ordering directive, applied left to right as tie-breakers.
type OrderTerm struct {
	Field string
	Desc  bool
}

// PaginationSpec is the validated, canonical pagination and ordering window
// of one request.
type PaginationSpec struct {
	Mode Mode

	// Page mode.
	Page int
	Size int

	// Range mode.
	Top    int
	Bottom int

	OrderBy []OrderTerm
}

// Window returns the record offset and limit regardless of mode.
func (s PaginationSpec) Window() (offset, limit int) {
	if s.Mode == ModeRange {
		return s.Top, s.Bottom - s.Top
	}
	return (s.Page - 1) * s.Size, s.Size
}

// Canonical renders the spec in a fixed textual form for key derivation.
// Ordering terms keep their request order: it is semantically significant.
func (s PaginationSpec) Canonical() string {
	var b strings.Builder
	if s.Mode == ModeRange {
		fmt.Fprintf(&b, "range:%d:%d", s.Top, s.Bottom)
	} else {
		fmt.Fprintf(&b, "page:%d:%d", s.Page, s.Size)
	}
	if len(s.OrderBy) > 0 {
		b.WriteString(":order:")
		for i, t := range s.OrderBy {
			if i > 0 {
				b.WriteString(valueDelimiter)
			}
			if t.Desc {
				b.WriteByte('-')
			}
			b.WriteString(t.Field)
		}
	}
	return b.String()
}

// ParsePagination interprets the page/top/bottom/order_by parameters.
//
// Range parameters take precedence: when top and bottom are both present the
// request is range-paginated even if page is also supplied. A lone top or
// bottom is rejected rather than guessed at. With neither style present the
// request defaults to page 1 of defaultSize.
//
// Ordering fields are validated against the allow-list when one is given;
// they reach the data store just like filter fields do.
func ParsePagination(params url.Values, defaultSize int, allowed FieldSet) (PaginationSpec, error) {
	spec := PaginationSpec{Mode: ModePage, Page: 1, Size: defaultSize}

	hasTop, hasBottom := params.Has("top"), params.Has("bottom")
	switch {
	case hasTop && hasBottom:
		top, err := parseIntParam(params, "top")
		if err != nil {
			return PaginationSpec{}, err
		}
		bottom, err := parseIntParam(params, "bottom")
		if err != nil {
			return PaginationSpec{}, err
		}
		if top < 0 {
			return PaginationSpec{}, newParamError(ErrInvalidPagination, "top", "must not be negative, got %d", top)
		}
		if bottom <= top {
			return PaginationSpec{}, newParamError(ErrInvalidPagination, "bottom", "must be greater than top, got top=%d bottom=%d", top, bottom)
		}
		spec.Mode, spec.Top, spec.Bottom = ModeRange, top, bottom
		spec.Page, spec.Size = 0, 0

	case hasTop || hasBottom:
		param := "top"
		if hasBottom {
			param = "bottom"
		}
		return PaginationSpec{}, newParamError(ErrInvalidPagination, param, "top and bottom must be supplied together")

	case params.Has("page"):
		page, err := parseIntParam(params, "page")
		if err != nil {
			return PaginationSpec{}, err
		}
		if page < 1 {
			return PaginationSpec{}, newParamError(ErrInvalidPagination, "page", "must be at least 1, got %d", page)
		}
		spec.Page = page
	}

	terms, err := parseOrderBy(params.Get("order_by"), allowed)
	if err != nil {
		return PaginationSpec{}, err
	}
	spec.OrderBy = terms

	return spec, nil
}

func parseIntParam(params url.Values, key string) (int, error) {
	raw := strings.TrimSpace(params.Get(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, newParamError(ErrInvalidPagination, key, "%q is not an integer", raw)
	}
	return n, nil
}

func parseOrderBy(raw string, allowed FieldSet) ([]OrderTerm, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var terms []OrderTerm
	for _, part := range strings.Split(raw, valueDelimiter) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		term := OrderTerm{Field: part}
		if strings.HasPrefix(part, "-") {
			term = OrderTerm{Field: part[1:], Desc: true}
		}
		if term.Field == "" {
			return nil, newParamError(ErrInvalidPagination, "order_by", "empty ordering term")
		}
		if allowed != nil {
			if _, ok := allowed[term.Field]; !ok {
				return nil, newParamError(ErrInvalidPagination, "order_by", "field %q is not orderable", term.Field)
			}
		}
		terms = append(terms, term)
	}
	return terms, nil
}
