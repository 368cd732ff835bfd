package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wbsearch_api/internal/wildberries/business/services/ingest"
	"wbsearch_api/internal/wildberries/models"
)

type fakeStore struct {
	filters  models.ProductFilters
	products []models.Product
	err      error
}

func (f *fakeStore) GetFiltered(_ context.Context, filters models.ProductFilters) ([]models.Product, error) {
	f.filters = filters
	return f.products, f.err
}

type fakeDispatcher struct {
	calls chan string
	err   error
}

func (f *fakeDispatcher) RunSearch(_ context.Context, query string, limit int) (ingest.Result, error) {
	if f.calls != nil {
		f.calls <- query
	}
	return ingest.Result{}, f.err
}

func newTestHandler(store *fakeStore, dispatcher *fakeDispatcher) *ProductHandler {
	return NewProductHandler(store, dispatcher, io.Discard)
}

func TestGetProductsNoFilters(t *testing.T) {
	store := &fakeStore{products: []models.Product{{ID: 1, Name: "a"}}}
	handler := newTestHandler(store, &fakeDispatcher{})

	req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
	rec := httptest.NewRecorder()
	handler.ProductsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if store.filters != (models.ProductFilters{}) {
		t.Fatalf("expected empty filters, got %+v", store.filters)
	}

	var body struct {
		Products []models.Product `json:"products"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Products) != 1 || body.Products[0].ID != 1 {
		t.Fatalf("unexpected products: %+v", body.Products)
	}
}

func TestGetProductsParsesFilters(t *testing.T) {
	store := &fakeStore{}
	handler := newTestHandler(store, &fakeDispatcher{})

	req := httptest.NewRequest(http.MethodGet,
		"/api/products/?min_price=1000&exact_rating=4.5&max_feedbacks=200", nil)
	rec := httptest.NewRecorder()
	handler.ProductsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if store.filters.MinPrice == nil || *store.filters.MinPrice != 1000 {
		t.Errorf("min_price not parsed: %+v", store.filters.MinPrice)
	}
	if store.filters.ExactRating == nil || store.filters.ExactRating.String() != "4.5" {
		t.Errorf("exact_rating not parsed: %+v", store.filters.ExactRating)
	}
	if store.filters.MaxFeedbacks == nil || *store.filters.MaxFeedbacks != 200 {
		t.Errorf("max_feedbacks not parsed: %+v", store.filters.MaxFeedbacks)
	}
}

func TestGetProductsRatingBoundaries(t *testing.T) {
	cases := []struct {
		param    string
		wantCode int
	}{
		{"min_rating=0", http.StatusOK},
		{"max_rating=5", http.StatusOK},
		{"exact_rating=5.1", http.StatusBadRequest},
		{"min_rating=-0.1", http.StatusBadRequest},
		{"max_rating=abc", http.StatusBadRequest},
		{"min_feedbacks=-1", http.StatusBadRequest},
		{"exact_price=xyz", http.StatusBadRequest},
	}

	for _, tc := range cases {
		handler := newTestHandler(&fakeStore{}, &fakeDispatcher{})
		req := httptest.NewRequest(http.MethodGet, "/api/products/?"+tc.param, nil)
		rec := httptest.NewRecorder()
		handler.ProductsHandler(rec, req)

		if rec.Code != tc.wantCode {
			t.Errorf("%s: expected %d, got %d", tc.param, tc.wantCode, rec.Code)
		}
	}
}

func TestGetProductsHidesInternalErrors(t *testing.T) {
	store := &fakeStore{err: errors.New("pq: relation does not exist")}
	handler := newTestHandler(store, &fakeDispatcher{})

	req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
	rec := httptest.NewRecorder()
	handler.ProductsHandler(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "pq:") {
		t.Fatalf("internal detail leaked to client: %s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Internal server error") {
		t.Fatalf("expected generic message, got %s", rec.Body.String())
	}
}

func TestPostProductsRequiresQuery(t *testing.T) {
	handler := newTestHandler(&fakeStore{}, &fakeDispatcher{})

	req := httptest.NewRequest(http.MethodPost, "/api/products/",
		strings.NewReader(`{"quantity": 5}`))
	rec := httptest.NewRecorder()
	handler.ProductsHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Query parameter is required") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestPostProductsDispatchesIngest(t *testing.T) {
	dispatcher := &fakeDispatcher{calls: make(chan string, 1)}
	handler := newTestHandler(&fakeStore{}, dispatcher)

	req := httptest.NewRequest(http.MethodPost, "/api/products/",
		strings.NewReader(`{"query": "носки", "quantity": 3}`))
	rec := httptest.NewRecorder()
	handler.ProductsHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"query":"success"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	select {
	case query := <-dispatcher.calls:
		if query != "носки" {
			t.Fatalf("expected dispatched query, got %q", query)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ingest was never dispatched")
	}
}

func TestProductsHandlerRejectsOtherMethods(t *testing.T) {
	handler := newTestHandler(&fakeStore{}, &fakeDispatcher{})

	req := httptest.NewRequest(http.MethodDelete, "/api/products/", nil)
	rec := httptest.NewRecorder()
	handler.ProductsHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
