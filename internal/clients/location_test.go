package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestLocationClient_RankedWarehouses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/warehouses/ranked" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("address"); got != "12 Elm Street" {
			t.Errorf("unexpected address %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ranked_warehouses":[
			{"id":102,"name":"North","distance_km":3.2},
			{"id":101,"name":"South","distance_km":7.9}
		]}`))
	}))
	defer srv.Close()

	c := NewLocationClient(srv.URL, srv.Client())
	ids, err := c.RankedWarehouses(context.Background(), "12 Elm Street")
	if err != nil {
		t.Fatalf("ranked warehouses: %v", err)
	}

	// Order is the ranking contract: preserved exactly as returned.
	if !reflect.DeepEqual(ids, []int64{102, 101}) {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestLocationClient_EmptyRanking(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ranked_warehouses":[]}`))
	}))
	defer srv.Close()

	c := NewLocationClient(srv.URL, srv.Client())
	ids, err := c.RankedWarehouses(context.Background(), "nowhere")
	if err != nil {
		t.Fatalf("ranked warehouses: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no candidates, got %v", ids)
	}
}

func TestLocationClient_Non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewLocationClient(srv.URL, srv.Client())
	if _, err := c.RankedWarehouses(context.Background(), "12 Elm Street"); err == nil {
		t.Fatalf("expected error on 500")
	}
}

func TestLocationClient_UnreachableIsError(t *testing.T) {
	c := NewLocationClient("http://127.0.0.1:1", &http.Client{Timeout: 200 * time.Millisecond})
	if _, err := c.RankedWarehouses(context.Background(), "12 Elm Street"); err == nil {
		t.Fatalf("expected transport error")
	}
}
