package viewset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-viewset-cache/query"
)

// RepositoryDataset adapts a go-repository-bun repository to the Dataset
// interface, translating FilterSpec and PaginationSpec into select criteria.
type RepositoryDataset[T any] struct {
	repo         repository.Repository[T]
	searchFields []string
}

var _ Dataset[any] = (*RepositoryDataset[any])(nil)

// NewRepositoryDataset wraps a repository. searchFields are the columns the
// search term is matched against; they should mirror the facade's
// Options.SearchFields.
func NewRepositoryDataset[T any](repo repository.Repository[T], searchFields ...string) *RepositoryDataset[T] {
	return &RepositoryDataset[T]{repo: repo, searchFields: searchFields}
}

// Query runs the filtered, ordered, windowed select and returns the window
// plus the unwindowed total.
func (d *RepositoryDataset[T]) Query(ctx context.Context, filters query.FilterSpec, page query.PaginationSpec) ([]T, int, error) {
	records, total, err := d.repo.List(ctx, d.criteria(filters, page)...)
	if err != nil {
		return nil, 0, mapNotFound(err)
	}
	return records, total, nil
}

// Get fetches one record by primary key.
func (d *RepositoryDataset[T]) Get(ctx context.Context, id string) (T, error) {
	record, err := d.repo.GetByID(ctx, id)
	if err != nil {
		var zero T
		return zero, mapNotFound(err)
	}
	return record, nil
}

// Insert persists a new record.
func (d *RepositoryDataset[T]) Insert(ctx context.Context, record T) (T, error) {
	created, err := d.repo.Create(ctx, record)
	if err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

// Update fetches the record, overlays the patch, and persists it. The
// overlay goes through the wire representation so patch keys use the same
// names clients send.
func (d *RepositoryDataset[T]) Update(ctx context.Context, id string, patch map[string]any) (T, error) {
	var zero T

	current, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return zero, mapNotFound(err)
	}

	merged, err := mergePatch(current, patch)
	if err != nil {
		return zero, err
	}

	updated, err := d.repo.Update(ctx, merged)
	if err != nil {
		return zero, mapNotFound(err)
	}
	return updated, nil
}

// Delete removes the record. Repositories configured for soft deletion keep
// their semantics; this adapter only orders the operations.
func (d *RepositoryDataset[T]) Delete(ctx context.Context, id string) error {
	record, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	return d.repo.Delete(ctx, record)
}

func (d *RepositoryDataset[T]) criteria(filters query.FilterSpec, page query.PaginationSpec) []repository.SelectCriteria {
	return []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = applyFilters(q, filters, d.searchFields)
			q = applyOrdering(q, page.OrderBy)
			offset, limit := page.Window()
			return q.Offset(offset).Limit(limit)
		},
	}
}

func applyFilters(q *bun.SelectQuery, filters query.FilterSpec, searchFields []string) *bun.SelectQuery {
	for _, c := range filters.Clauses {
		switch c.Op {
		case query.OpExact:
			q = q.Where("? = ?", bun.Ident(c.Field), c.Values[0])
		case query.OpIn:
			q = q.Where("? IN (?)", bun.Ident(c.Field), bun.In(c.Values))
		case query.OpExclude:
			if len(c.Values) == 1 {
				q = q.Where("? != ?", bun.Ident(c.Field), c.Values[0])
			} else {
				q = q.Where("? NOT IN (?)", bun.Ident(c.Field), bun.In(c.Values))
			}
		}
	}

	if filters.Search != "" && len(searchFields) > 0 {
		pattern := "%" + filters.Search + "%"
		fields := searchFields
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			for _, f := range fields {
				q = q.WhereOr("LOWER(?) LIKE LOWER(?)", bun.Ident(f), pattern)
			}
			return q
		})
	}
	return q
}

func applyOrdering(q *bun.SelectQuery, terms []query.OrderTerm) *bun.SelectQuery {
	for _, t := range terms {
		if t.Desc {
			q = q.OrderExpr("? DESC", bun.Ident(t.Field))
		} else {
			q = q.OrderExpr("? ASC", bun.Ident(t.Field))
		}
	}
	return q
}

// mergePatch overlays a wire-format patch onto a record.
func mergePatch[T any](record T, patch map[string]any) (T, error) {
	var zero T

	raw, err := json.Marshal(record)
	if err != nil {
		return zero, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return zero, fmt.Errorf("%w: record is not an object", ErrInvalidBody)
	}
	for k, v := range patch {
		m[k] = v
	}

	merged, err := json.Marshal(m)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return out, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
