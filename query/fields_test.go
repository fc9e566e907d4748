package query

import (
	"net/url"
	"reflect"
	"testing"
)

func TestParseFieldSelection(t *testing.T) {
	tests := []struct {
		name    string
		params  url.Values
		allowed []string
		want    []string
	}{
		{
			name:   "absent parameter means all fields",
			params: url.Values{},
			want:   nil,
		},
		{
			name:   "selection sorted and deduped",
			params: url.Values{"fields": {"name,id,name"}},
			want:   []string{"id", "name"},
		},
		{
			name:    "unlisted names dropped",
			params:  url.Values{"fields": {"name,password"}},
			allowed: []string{"id", "name"},
			want:    []string{"name"},
		},
		{
			name:    "selection fully filtered away means all fields",
			params:  url.Values{"fields": {"password"}},
			allowed: []string{"id", "name"},
			want:    nil,
		},
		{
			name:   "empty value means all fields",
			params: url.Values{"fields": {" , "}},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFieldSelection(tt.params, tt.allowed)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFieldSelection() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFieldsKey(t *testing.T) {
	if got := FieldsKey(nil); got != "all" {
		t.Errorf("FieldsKey(nil) = %q, want %q", got, "all")
	}
	if got := FieldsKey([]string{"id", "name"}); got != "id,name" {
		t.Errorf("FieldsKey() = %q, want %q", got, "id,name")
	}
}
