// Package testsupport provides in-memory fakes for the viewset collaborator
// interfaces, shared across package tests.
package testsupport

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-viewset-cache/query"
	"github.com/goliatone/go-viewset-cache/viewset"
)

func notFoundError(id string) error {
	return fmt.Errorf("%w: id %q", viewset.ErrNotFound, id)
}

// Backend is a recording in-memory cache backend. It tracks operation counts
// and supports error injection so tests can verify best-effort semantics.
type Backend struct {
	mu      sync.Mutex
	entries map[string][]byte

	Gets    int
	Hits    int
	Sets    int
	Deletes int

	// FailReads / FailWrites inject the given error into Get and
	// Set/Delete/DeleteByPrefix respectively.
	FailReads  error
	FailWrites error
}

// NewBackend creates an empty recording backend.
func NewBackend() *Backend {
	return &Backend{entries: make(map[string][]byte)}
}

func (b *Backend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Gets++
	if b.FailReads != nil {
		return nil, false, b.FailReads
	}
	payload, ok := b.entries[key]
	if ok {
		b.Hits++
	}
	return payload, ok, nil
}

func (b *Backend) Set(_ context.Context, key string, payload []byte, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Sets++
	if b.FailWrites != nil {
		return b.FailWrites
	}
	b.entries[key] = append([]byte(nil), payload...)
	return nil
}

func (b *Backend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Deletes++
	if b.FailWrites != nil {
		return b.FailWrites
	}
	delete(b.entries, key)
	return nil
}

func (b *Backend) DeleteByPrefix(_ context.Context, prefix string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Deletes++
	if b.FailWrites != nil {
		return b.FailWrites
	}
	for key := range b.entries {
		if strings.HasPrefix(key, prefix) {
			delete(b.entries, key)
		}
	}
	return nil
}

// Len returns the number of live entries.
func (b *Backend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Keys returns the live keys, sorted.
func (b *Backend) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	keys := make([]string, 0, len(b.entries))
	for k := range b.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dataset is an in-memory Dataset fake. Records are matched against filter
// clauses through their wire (JSON) representation, which keeps the fake
// faithful to how field names appear in requests.
type Dataset[T any] struct {
	mu      sync.Mutex
	records []T

	Identity     func(T) string
	SearchFields []string

	// Queries counts Query invocations, letting tests assert whether a read
	// was served from cache or from the dataset.
	Queries int

	// FailWith makes every operation return the given error.
	FailWith error
}

// NewDataset seeds a fake dataset. identity extracts a record's id.
func NewDataset[T any](identity func(T) string, seed ...T) *Dataset[T] {
	return &Dataset[T]{records: append([]T(nil), seed...), Identity: identity}
}

func (d *Dataset[T]) Query(_ context.Context, filters query.FilterSpec, page query.PaginationSpec) ([]T, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.Queries++
	if d.FailWith != nil {
		return nil, 0, d.FailWith
	}

	var matched []T
	for _, r := range d.records {
		if d.matches(r, filters) {
			matched = append(matched, r)
		}
	}
	sortRecords(matched, page.OrderBy)

	total := len(matched)
	offset, limit := page.Window()
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (d *Dataset[T]) Get(_ context.Context, id string) (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	if d.FailWith != nil {
		return zero, d.FailWith
	}
	for _, r := range d.records {
		if d.Identity(r) == id {
			return r, nil
		}
	}
	return zero, notFoundError(id)
}

func (d *Dataset[T]) Insert(_ context.Context, record T) (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	if d.FailWith != nil {
		return zero, d.FailWith
	}
	d.records = append(d.records, record)
	return record, nil
}

func (d *Dataset[T]) Update(_ context.Context, id string, patch map[string]any) (T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	if d.FailWith != nil {
		return zero, d.FailWith
	}
	for i, r := range d.records {
		if d.Identity(r) != id {
			continue
		}
		merged, err := overlay(r, patch)
		if err != nil {
			return zero, err
		}
		d.records[i] = merged
		return merged, nil
	}
	return zero, notFoundError(id)
}

func (d *Dataset[T]) Delete(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.FailWith != nil {
		return d.FailWith
	}
	for i, r := range d.records {
		if d.Identity(r) == id {
			d.records = append(d.records[:i], d.records[i+1:]...)
			return nil
		}
	}
	return notFoundError(id)
}

// Len returns the number of stored records.
func (d *Dataset[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.records)
}

func (d *Dataset[T]) matches(record T, filters query.FilterSpec) bool {
	m := wireMap(record)

	for _, c := range filters.Clauses {
		value := fmt.Sprintf("%v", m[c.Field])
		in := false
		for _, v := range c.Values {
			if v == value {
				in = true
				break
			}
		}
		if c.Op == query.OpExclude {
			if in {
				return false
			}
		} else if !in {
			return false
		}
	}

	if filters.Search != "" && len(d.SearchFields) > 0 {
		needle := strings.ToLower(filters.Search)
		found := false
		for _, f := range d.SearchFields {
			if strings.Contains(strings.ToLower(fmt.Sprintf("%v", m[f])), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortRecords[T any](records []T, terms []query.OrderTerm) {
	if len(terms) == 0 {
		return
	}
	sort.SliceStable(records, func(i, j int) bool {
		mi, mj := wireMap(records[i]), wireMap(records[j])
		for _, t := range terms {
			a, b := fmt.Sprintf("%v", mi[t.Field]), fmt.Sprintf("%v", mj[t.Field])
			if a == b {
				continue
			}
			if t.Desc {
				return a > b
			}
			return a < b
		}
		return false
	})
}

func wireMap[T any](record T) map[string]any {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func overlay[T any](record T, patch map[string]any) (T, error) {
	var zero T
	m := wireMap(record)
	if m == nil {
		return zero, fmt.Errorf("testsupport: record is not an object")
	}
	for k, v := range patch {
		m[k] = v
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, err
	}
	return out, nil
}
