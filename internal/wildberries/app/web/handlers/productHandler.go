package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"wbsearch_api/internal/wildberries/business/services/ingest"
	"wbsearch_api/internal/wildberries/models"
	"wbsearch_api/pkg/logger"
)

const defaultSearchQuantity = 10

// dispatchTimeout bounds a background ingest run triggered over HTTP.
const dispatchTimeout = 2 * time.Minute

// ProductStore is the read surface the handler needs from storage.
type ProductStore interface {
	GetFiltered(ctx context.Context, filters models.ProductFilters) ([]models.Product, error)
}

// SearchDispatcher runs the ingest pipeline for a search term.
type SearchDispatcher interface {
	RunSearch(ctx context.Context, query string, limit int) (ingest.Result, error)
}

type ProductHandler struct {
	store    ProductStore
	searcher SearchDispatcher
	log      logger.Logger
}

func NewProductHandler(store ProductStore, searcher SearchDispatcher, writer io.Writer) *ProductHandler {
	return &ProductHandler{
		store:    store,
		searcher: searcher,
		log:      logger.NewLogger(writer, "[ProductHandler]"),
	}
}

// ProductsHandler serves /api/products/ for both methods.
func (h *ProductHandler) ProductsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getProducts(w, r)
	case http.MethodPost:
		h.postProducts(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	}
}

// getProducts returns stored products matching the optional filters.
// Validation failures become 400; everything past validation becomes a
// generic 500 with the detail kept server-side.
func (h *ProductHandler) getProducts(w http.ResponseWriter, r *http.Request) {
	filters, err := parseProductFilters(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	products, err := h.store.GetFiltered(r.Context(), filters)
	if err != nil {
		h.log.Log("Error fetching products: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

type searchRequest struct {
	Query    string `json:"query"`
	Quantity int    `json:"quantity"`
}

// postProducts validates the body and hands the search term to the ingest
// pipeline in-process, asynchronously. The response only acknowledges the
// dispatch.
func (h *ProductHandler) postProducts(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Failed to decode request body"})
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Query parameter is required"})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = defaultSearchQuantity
	}

	go func(query string, quantity int) {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		result, err := h.searcher.RunSearch(ctx, query, quantity)
		if err != nil {
			h.log.Log("Dispatched ingest for %q failed: %v", query, err)
			return
		}
		h.log.Log("Dispatched ingest for %q done: upserted=%d failed=%d",
			query, result.Upserted, result.Failed)
	}(req.Query, req.Quantity)

	writeJSON(w, http.StatusOK, map[string]string{"query": "success"})
}

// parseProductFilters reads the nine optional filter parameters. Rating
// bounds are validated here so the repository only ever sees values inside
// [0, 5]; feedback filters must be non-negative.
func parseProductFilters(q url.Values) (models.ProductFilters, error) {
	var filters models.ProductFilters
	var err error

	if filters.MinPrice, err = parseInt64Param(q, "min_price"); err != nil {
		return filters, err
	}
	if filters.MaxPrice, err = parseInt64Param(q, "max_price"); err != nil {
		return filters, err
	}
	if filters.ExactPrice, err = parseInt64Param(q, "exact_price"); err != nil {
		return filters, err
	}

	if filters.MinRating, err = parseRatingParam(q, "min_rating"); err != nil {
		return filters, err
	}
	if filters.MaxRating, err = parseRatingParam(q, "max_rating"); err != nil {
		return filters, err
	}
	if filters.ExactRating, err = parseRatingParam(q, "exact_rating"); err != nil {
		return filters, err
	}

	if filters.MinFeedbacks, err = parseCountParam(q, "min_feedbacks"); err != nil {
		return filters, err
	}
	if filters.MaxFeedbacks, err = parseCountParam(q, "max_feedbacks"); err != nil {
		return filters, err
	}
	if filters.ExactFeedbacks, err = parseCountParam(q, "exact_feedbacks"); err != nil {
		return filters, err
	}

	return filters, nil
}

func parseInt64Param(q url.Values, name string) (*int64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &n, nil
}

func parseCountParam(q url.Values, name string) (*int, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	if n < 0 {
		return nil, fmt.Errorf("%s must be non-negative", name)
	}
	return &n, nil
}

var (
	ratingMin = decimal.NewFromInt(0)
	ratingMax = decimal.NewFromInt(5)
)

func parseRatingParam(q url.Values, name string) (*decimal.Decimal, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a decimal number", name)
	}
	if d.LessThan(ratingMin) || d.GreaterThan(ratingMax) {
		return nil, fmt.Errorf("%s must be between 0 and 5", name)
	}
	return &d, nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
