package viewset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-viewset-cache/query"
)

// Dataset is the external collaborator executing queries against persisted
// records. Implementations receive already-validated specs; they never see
// raw query parameters.
//
// Query returns the window of records selected by the pagination spec plus
// the total number of records matching the filters without pagination.
// Get, Update, and Delete return ErrNotFound (possibly wrapped) for missing
// ids; other errors propagate unchanged.
type Dataset[T any] interface {
	Query(ctx context.Context, filters query.FilterSpec, page query.PaginationSpec) ([]T, int, error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, record T) (T, error)
	Update(ctx context.Context, id string, patch map[string]any) (T, error)
	Delete(ctx context.Context, id string) error
}

// Serializer converts domain records to and from wire format. Marshal
// receives the requested field projection; nil means all fields.
type Serializer[T any] interface {
	Marshal(record T, fields []string) ([]byte, error)
	Unmarshal(data []byte) (T, error)
}

// JSONSerializer is the default Serializer. Field projection round-trips the
// record through a map, which is fine for the wire-facing structs this layer
// handles.
type JSONSerializer[T any] struct{}

// Marshal encodes the record, keeping only the selected fields when a
// projection is given. Projection names refer to wire (JSON) field names.
func (JSONSerializer[T]) Marshal(record T, fields []string) ([]byte, error) {
	if len(fields) == 0 {
		return json.Marshal(record)
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("viewset: field projection needs an object payload: %w", err)
	}

	keep := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		keep[f] = struct{}{}
	}
	for k := range m {
		if _, ok := keep[k]; !ok {
			delete(m, k)
		}
	}
	return json.Marshal(m)
}

// Unmarshal decodes a request body into a record.
func (JSONSerializer[T]) Unmarshal(data []byte) (T, error) {
	var record T
	if err := json.Unmarshal(data, &record); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return record, nil
}
