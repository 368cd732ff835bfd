package clients

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"wbsearch_api/config"
	"wbsearch_api/config/values"
)

func newTestClient(serverURL string) *SearchClient {
	cfg := config.WildberriesConfig{
		SearchURL: serverURL,
		WbValues:  values.DefaultSearchValues(),
	}
	cfg.WbValues.RequestsPerSec = 1000 // no throttling in tests
	return NewSearchClient(cfg, io.Discard)
}

func TestSearchProductsRejectsEmptyQueryWithoutNetworkCall(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	for _, query := range []string{"", "   "} {
		_, err := client.SearchProducts(context.Background(), query, 10)
		if !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("query %q: expected ErrEmptyQuery, got %v", query, err)
		}
	}
	if hits.Load() != 0 {
		t.Fatalf("empty query must not reach the network, got %d calls", hits.Load())
	}
}

func TestSearchProductsRejectsNonPositiveLimit(t *testing.T) {
	client := newTestClient("http://localhost:0")

	for _, limit := range []int{0, -5} {
		_, err := client.SearchProducts(context.Background(), "socks", limit)
		if !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("limit %d: expected ErrInvalidLimit, got %v", limit, err)
		}
	}
}

func TestSearchProductsRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.SearchProducts(context.Background(), "socks", 10)
	if !errors.Is(err, ErrRemoteService) {
		t.Fatalf("expected ErrRemoteService, got %v", err)
	}
}

func TestSearchProductsMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"products": [`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.SearchProducts(context.Background(), "socks", 10)
	if !errors.Is(err, ErrResponseParse) {
		t.Fatalf("expected ErrResponseParse, got %v", err)
	}
}

func TestSearchProductsExtractsProducts(t *testing.T) {
	var gotQuery, gotLimit, gotResultset string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotLimit = r.URL.Query().Get("limit")
		gotResultset = r.URL.Query().Get("resultset")
		w.Write([]byte(`{
			"data": {
				"products": [
					{"id": 1, "name": "a", "priceU": 10000},
					{"id": 2, "name": "b"}
				]
			},
			"state": 0
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	products, err := client.SearchProducts(context.Background(), "кроссовки", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if id, ok := products[0].ID(); !ok || id != 1 {
		t.Errorf("expected first product id 1, got %v %v", id, ok)
	}

	if gotQuery != "кроссовки" || gotLimit != "2" || gotResultset != "catalog" {
		t.Errorf("unexpected request parameters: query=%q limit=%q resultset=%q",
			gotQuery, gotLimit, gotResultset)
	}
}

func TestSearchProductsEmptyCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	products, err := client.SearchProducts(context.Background(), "socks", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected no products, got %d", len(products))
	}
}
