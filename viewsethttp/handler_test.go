package viewsethttp_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-viewset-cache/pkg/testsupport"
	"github.com/goliatone/go-viewset-cache/query"
	"github.com/goliatone/go-viewset-cache/viewset"
	"github.com/goliatone/go-viewset-cache/viewsethttp"
)

type item struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func itemID(i item) string { return i.ID }

func newTestRouter(t *testing.T, mutate func(*viewset.Options)) (*gin.Engine, *testsupport.Dataset[item]) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	opts := viewset.Options{
		Resource:            "items",
		KeyPrefix:           "items",
		CacheTTL:            time.Minute,
		AllowedFilterFields: query.Fields("name", "status"),
		SizePerRequest:      2,
	}
	if mutate != nil {
		mutate(&opts)
	}

	dataset := testsupport.NewDataset(itemID,
		item{ID: "1", Name: "John", Status: "active"},
		item{ID: "2", Name: "Jane", Status: "active"},
		item{ID: "3", Name: "John", Status: "draft"},
		item{ID: "4", Name: "Jane", Status: "active"},
		item{ID: "5", Name: "John", Status: "active"},
	)
	vs, err := viewset.New(opts, dataset, testsupport.NewBackend(), viewset.WithIdentity[item](itemID))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	r := gin.New()
	viewsethttp.Register(r, "/items", vs)
	return r, dataset
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_ListScenario(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	// Two Johns and two Janes are active; page size 2 puts the last match on
	// page 2.
	w := do(r, http.MethodGet, "/items/?name=John,Jane&exclude__status=draft&page=2&order_by=name", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body)
	}
	if got := w.Header().Get(viewsethttp.CacheHeader); got != "MISS" {
		t.Errorf("%s = %q, want MISS", viewsethttp.CacheHeader, got)
	}

	var lp viewset.ListPayload
	if err := json.Unmarshal(w.Body.Bytes(), &lp); err != nil {
		t.Fatalf("response is not a list payload: %v", err)
	}
	if lp.TotalCount != 4 || lp.NumPages != 2 || lp.CurrentPage != 2 {
		t.Errorf("total/pages/current = %d/%d/%d, want 4/2/2", lp.TotalCount, lp.NumPages, lp.CurrentPage)
	}
	if len(lp.Objects) != 2 {
		t.Errorf("objects on page 2 = %d, want 2", len(lp.Objects))
	}

	// The repeat arrives with reordered parameters and still hits.
	w = do(r, http.MethodGet, "/items/?order_by=name&page=2&exclude__status=draft&name=Jane,John", "")
	if got := w.Header().Get(viewsethttp.CacheHeader); got != "HIT" {
		t.Errorf("%s = %q, want HIT on equivalent repeat", viewsethttp.CacheHeader, got)
	}
}

func TestHandler_RetrieveCacheHeader(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/items/2/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get(viewsethttp.CacheHeader); got != "MISS" {
		t.Errorf("first retrieve %s = %q, want MISS", viewsethttp.CacheHeader, got)
	}

	w = do(r, http.MethodGet, "/items/2/", "")
	if got := w.Header().Get(viewsethttp.CacheHeader); got != "HIT" {
		t.Errorf("second retrieve %s = %q, want HIT", viewsethttp.CacheHeader, got)
	}
}

func TestHandler_WriteFlow(t *testing.T) {
	r, dataset := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/items/", `{"id":"9","name":"Eve","status":"active"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body %s)", w.Code, w.Body)
	}
	if dataset.Len() != 6 {
		t.Errorf("dataset len = %d, want 6", dataset.Len())
	}

	w = do(r, http.MethodPut, "/items/9/", `{"status":"draft"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200 (body %s)", w.Code, w.Body)
	}
	var updated item
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("update response invalid: %v", err)
	}
	if updated.Status != "draft" || updated.Name != "Eve" {
		t.Errorf("updated = %+v, want patched status with name kept", updated)
	}

	w = do(r, http.MethodDelete, "/items/9/", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", w.Code)
	}
	if dataset.Len() != 5 {
		t.Errorf("dataset len = %d, want 5 after delete", dataset.Len())
	}

	w = do(r, http.MethodGet, "/items/9/", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("retrieve after delete status = %d, want 404", w.Code)
	}
}

func TestHandler_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*viewset.Options)
		method string
		target string
		body   string
		want   int
	}{
		{
			name:   "unknown exclude field",
			method: http.MethodGet,
			target: "/items/?exclude__secret=x",
			want:   http.StatusBadRequest,
		},
		{
			name:   "bad pagination",
			method: http.MethodGet,
			target: "/items/?page=0",
			want:   http.StatusBadRequest,
		},
		{
			name:   "missing record",
			method: http.MethodGet,
			target: "/items/404/",
			want:   http.StatusNotFound,
		},
		{
			name:   "invalid update body",
			method: http.MethodPut,
			target: "/items/1/",
			body:   "not json",
			want:   http.StatusBadRequest,
		},
		{
			name: "update field outside allow-list",
			mutate: func(o *viewset.Options) {
				o.AllowedUpdateFields = []string{"status"}
			},
			method: http.MethodPut,
			target: "/items/1/",
			body:   `{"name":"x"}`,
			want:   http.StatusBadRequest,
		},
		{
			name: "method outside allow-list",
			mutate: func(o *viewset.Options) {
				o.AllowedMethods = []viewset.Method{viewset.MethodList}
			},
			method: http.MethodDelete,
			target: "/items/1/",
			want:   http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t, tt.mutate)
			w := do(r, tt.method, tt.target, tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body)
			}
			var payload map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
				t.Fatalf("error body invalid: %v", err)
			}
			if payload["error"] == "" {
				t.Error("error body should carry a message")
			}
		})
	}
}
