package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"wbsearch_api/config"
	"wbsearch_api/internal/wildberries/models"
	"wbsearch_api/pkg/logger"
)

var (
	// ErrEmptyQuery and ErrInvalidLimit are caller errors; nothing is sent
	// over the network when they are returned.
	ErrEmptyQuery   = errors.New("search query must not be empty")
	ErrInvalidLimit = errors.New("search limit must be positive")

	// ErrRemoteService covers transport failures and non-success statuses
	// from wb.ru.
	ErrRemoteService = errors.New("wildberries search request failed")
	// ErrResponseParse covers syntactically broken response bodies.
	ErrResponseParse = errors.New("wildberries search response is malformed")
)

// SearchClient queries the public wb.ru search endpoint. One attempt per
// call; retrying is up to the caller.
type SearchClient struct {
	searchURL string
	values    searchValues
	client    *http.Client
	limiter   *rate.Limiter
	log       logger.Logger
}

type searchValues struct {
	resultset string
	dest      int
	regions   string
}

func NewSearchClient(cfg config.WildberriesConfig, writer io.Writer) *SearchClient {
	rps := cfg.WbValues.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}
	timeout := time.Duration(cfg.WbValues.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SearchClient{
		searchURL: cfg.SearchURL,
		values: searchValues{
			resultset: cfg.WbValues.Resultset,
			dest:      cfg.WbValues.Dest,
			regions:   cfg.WbValues.Regions,
		},
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		log:     logger.NewLogger(writer, "[SearchClient]"),
	}
}

type searchResponse struct {
	Data struct {
		Products []models.RawProduct `json:"products"`
	} `json:"data"`
}

// SearchProducts runs one catalog search and returns the raw product
// records. The rest of the response body is not interpreted.
func (c *SearchClient) SearchProducts(ctx context.Context, query string, limit int) ([]models.RawProduct, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteService, err)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("resultset", c.values.resultset)
	params.Set("dest", strconv.Itoa(c.values.dest))
	params.Set("regions", c.values.regions)
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	c.log.Log("Searching products: query=%q limit=%d", query, limit)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrRemoteService, resp.Status)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseParse, err)
	}

	c.log.Log("Found %d products for query %q", len(searchResp.Data.Products), query)
	return searchResp.Data.Products, nil
}
